package model

import "fmt"

// RGB represents a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as an uppercase RRGGBB string without a leading #.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// CSS returns the color as a #rrggbb string for HTML output.
func (c RGB) CSS() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// IsWhite reports whether the color is pure white.
func (c RGB) IsWhite() bool {
	return c.R == 0xFF && c.G == 0xFF && c.B == 0xFF
}

// ParseHex parses an RRGGBB or #RRGGBB string. FF-prefixed ARGB values
// (as stored in spreadsheet styles) are accepted with the alpha dropped.
func ParseHex(s string) (RGB, bool) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) == 8 {
		s = s[2:]
	}
	if len(s) != 6 {
		return RGB{}, false
	}
	var c RGB
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return RGB{}, false
	}
	return c, true
}

// Alignment represents horizontal text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// StyleAttributes is the semantic representation of text and cell styling,
// independent of any source or target format. It is a value type; copies
// are cheap and mutation never aliases.
type StyleAttributes struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Superscript   bool
	Subscript     bool
	FontSizePt    float64
	Foreground    *RGB // nil means unset
	Background    *RGB // nil means unset
	Align         Alignment
}

// DefaultStyle returns the baseline style: 12pt, left-aligned, no
// decorations, no colors.
func DefaultStyle() StyleAttributes {
	return StyleAttributes{FontSizePt: 12, Align: AlignLeft}
}

// Equal reports whether two styles are identical, comparing colors by
// value rather than by pointer.
func (s StyleAttributes) Equal(other StyleAttributes) bool {
	if s.Bold != other.Bold || s.Italic != other.Italic ||
		s.Underline != other.Underline || s.Strikethrough != other.Strikethrough ||
		s.Superscript != other.Superscript || s.Subscript != other.Subscript ||
		s.FontSizePt != other.FontSizePt || s.Align != other.Align {
		return false
	}
	return rgbEqual(s.Foreground, other.Foreground) && rgbEqual(s.Background, other.Background)
}

func rgbEqual(a, b *RGB) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
