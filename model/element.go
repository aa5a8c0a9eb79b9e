package model

import "strings"

// ElementType represents the type of page element.
type ElementType int

const (
	ElementTypeUnknown ElementType = iota
	ElementTypeText
	ElementTypeTable
	ElementTypeImage
	ElementTypeRule
)

func (et ElementType) String() string {
	switch et {
	case ElementTypeText:
		return "Text"
	case ElementTypeTable:
		return "Table"
	case ElementTypeImage:
		return "Image"
	case ElementTypeRule:
		return "Rule"
	default:
		return "Unknown"
	}
}

// Element is the interface for all page elements.
type Element interface {
	Type() ElementType
	BoundingBox() BBox
}

// Role classifies a text block's semantic function.
type Role int

const (
	RoleParagraph Role = iota
	RoleHeading
	RoleListItem
)

func (r Role) String() string {
	switch r {
	case RoleHeading:
		return "Heading"
	case RoleListItem:
		return "ListItem"
	default:
		return "Paragraph"
	}
}

// TextRun is a contiguous piece of text sharing one style. A run is owned
// by exactly one TextBlock or Cell.
type TextRun struct {
	Text  string
	Style StyleAttributes
}

// TextBlock is a heading, paragraph, or list item built from styled runs.
type TextBlock struct {
	Runs []TextRun
	BBox BBox
	Role Role
	// Level is the heading level (1-6) when Role is RoleHeading.
	Level int
	// Depth and Ordered describe list nesting when Role is RoleListItem.
	Depth   int
	Ordered bool
}

func (t *TextBlock) Type() ElementType { return ElementTypeText }
func (t *TextBlock) BoundingBox() BBox { return t.BBox }

// Text returns the concatenated run text.
func (t *TextBlock) Text() string {
	var sb strings.Builder
	for _, r := range t.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// AvgFontSize returns the mean font size across runs, or 0 for an empty
// block.
func (t *TextBlock) AvgFontSize() float64 {
	if len(t.Runs) == 0 {
		return 0
	}
	var sum float64
	for _, r := range t.Runs {
		sum += r.Style.FontSizePt
	}
	return sum / float64(len(t.Runs))
}

// ImageFormat identifies an image's encoding.
type ImageFormat int

const (
	ImageFormatUnknown ImageFormat = iota
	ImageFormatPNG
	ImageFormatJPEG
	ImageFormatTIFF
	ImageFormatGIF
)

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatPNG:
		return "png"
	case ImageFormatJPEG:
		return "jpeg"
	case ImageFormatTIFF:
		return "tiff"
	case ImageFormatGIF:
		return "gif"
	default:
		return "unknown"
	}
}

// Image is an embedded raster image. Data is copied into the model at
// extraction time; no backing file handle is retained.
type Image struct {
	Data   []byte
	Format ImageFormat
	BBox   BBox
}

func (i *Image) Type() ElementType { return ElementTypeImage }
func (i *Image) BoundingBox() BBox { return i.BBox }

// Rule is a horizontal divider.
type Rule struct {
	BBox BBox
}

func (r *Rule) Type() ElementType { return ElementTypeRule }
func (r *Rule) BoundingBox() BBox { return r.BBox }
