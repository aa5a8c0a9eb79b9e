package model

// Paper identifies a paper size tier. Emitters escalate one tier for very
// wide spreadsheet sources.
type Paper int

const (
	PaperLetter Paper = iota
	PaperLegal
	PaperTabloid
)

// Dimensions returns the portrait width and height in points.
func (p Paper) Dimensions() (w, h float64) {
	switch p {
	case PaperLegal:
		return 612, 1008
	case PaperTabloid:
		return 792, 1224
	default:
		return 612, 792
	}
}

// Escalate returns the next larger paper tier.
func (p Paper) Escalate() Paper {
	if p >= PaperTabloid {
		return PaperTabloid
	}
	return p + 1
}

func (p Paper) String() string {
	switch p {
	case PaperLegal:
		return "legal"
	case PaperTabloid:
		return "tabloid"
	default:
		return "letter"
	}
}

// PageSetup records the page shape an emitter selected for a paginated
// target. Chosen once per document, or once per sheet for spreadsheet
// sources.
type PageSetup struct {
	Paper     Paper
	Landscape bool
}

// Dimensions returns the effective page width and height in points, with
// the axes swapped for landscape.
func (s PageSetup) Dimensions() (w, h float64) {
	w, h = s.Paper.Dimensions()
	if s.Landscape {
		return h, w
	}
	return w, h
}

// Metadata carries document-level information copied from the source when
// present.
type Metadata struct {
	Title   string
	Author  string
	Subject string
	Creator string
}

// Document is the complete intermediate representation for one conversion:
// an ordered page sequence plus the selected page setup. It is built once,
// consumed by exactly one emitter, and discarded.
type Document struct {
	Metadata Metadata
	Setup    PageSetup
	Pages    []*Page
}

// NewDocument creates an empty document with a portrait letter setup.
func NewDocument() *Document {
	return &Document{
		Setup: PageSetup{Paper: PaperLetter},
		Pages: make([]*Page, 0),
	}
}

// AddPage appends a page and assigns its 1-indexed number.
func (d *Document) AddPage(page *Page) {
	page.Number = len(d.Pages) + 1
	d.Pages = append(d.Pages, page)
}

// PageCount returns the total number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// MaxTableColumns returns the widest table's column count across all
// pages.
func (d *Document) MaxTableColumns() int {
	var cols int
	for _, p := range d.Pages {
		if c := p.MaxTableColumns(); c > cols {
			cols = c
		}
	}
	return cols
}
