package layout

import (
	"strings"

	"github.com/tsawler/docshift/model"
)

// Flags carries explicit style booleans from sources that expose them
// (OOXML runs, HTML tags). When present they override all inference.
type Flags struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
}

// Classify derives style attributes for a text run. When explicit is
// non-nil its flags are used directly. Otherwise bold and italic are
// inferred from the font name and size: a lowercased font name containing
// "bold", or a size above 14pt, marks the run bold; "italic" or "oblique"
// in the name marks it italic.
//
// The size rule is a deliberate approximation. PDF stores weight inside
// the font program rather than as a flag, and large display text in a
// regular face will be misclassified as bold. Callers needing stricter
// behavior should branch on the font name only.
//
// Classify is a pure function: identical inputs always produce identical
// attributes.
func Classify(fontName string, sizePt float64, explicit *Flags) model.StyleAttributes {
	style := model.DefaultStyle()
	if sizePt > 0 {
		style.FontSizePt = sizePt
	}

	if explicit != nil {
		style.Bold = explicit.Bold
		style.Italic = explicit.Italic
		style.Underline = explicit.Underline
		style.Strikethrough = explicit.Strikethrough
		return style
	}

	name := strings.ToLower(fontName)
	style.Bold = strings.Contains(name, "bold") || sizePt > 14
	style.Italic = strings.Contains(name, "italic") || strings.Contains(name, "oblique")
	return style
}

// HeadingLevel maps an average font size to a heading level per the
// reconstruction thresholds: >20pt is level 1, >16 level 2, >14 level 3.
// Returns 0 for body-text sizes.
func HeadingLevel(avgSize float64) int {
	switch {
	case avgSize > 20:
		return 1
	case avgSize > 16:
		return 2
	case avgSize > 14:
		return 3
	default:
		return 0
	}
}
