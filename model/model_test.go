package model

import (
	"testing"
)

// ============================================================================
// BBox Tests
// ============================================================================

func TestNewBBoxNormalizes(t *testing.T) {
	tests := []struct {
		name string
		in   BBox
		want BBox
	}{
		{"already normal", NewBBox(10, 20, 100, 50), BBox{10, 20, 100, 50}},
		{"flipped x", NewBBox(100, 20, 10, 50), BBox{10, 20, 100, 50}},
		{"flipped y", NewBBox(10, 50, 100, 20), BBox{10, 20, 100, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.in != tt.want {
				t.Errorf("NewBBox() = %+v, want %+v", tt.in, tt.want)
			}
		})
	}
}

func TestBBoxIntersects(t *testing.T) {
	base := BBox{0, 0, 100, 100}

	tests := []struct {
		name  string
		other BBox
		want  bool
	}{
		{"fully inside", BBox{10, 10, 20, 20}, true},
		{"partial overlap", BBox{90, 90, 150, 150}, true},
		{"shared edge", BBox{100, 0, 200, 100}, true},
		{"disjoint right", BBox{101, 0, 200, 100}, false},
		{"disjoint below", BBox{0, 101, 100, 200}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestBBoxIntersectionAndUnion(t *testing.T) {
	a := BBox{0, 0, 100, 100}
	b := BBox{50, 50, 150, 150}

	inter := a.Intersection(b)
	if inter != (BBox{50, 50, 100, 100}) {
		t.Errorf("Intersection() = %+v", inter)
	}

	union := a.Union(b)
	if union != (BBox{0, 0, 150, 150}) {
		t.Errorf("Union() = %+v", union)
	}
}

func TestBBoxOverlapRatio(t *testing.T) {
	a := BBox{0, 0, 100, 100}
	inner := BBox{25, 25, 75, 75}

	if r := a.OverlapRatio(inner); r != 1.0 {
		t.Errorf("OverlapRatio(contained) = %v, want 1.0", r)
	}
	if r := a.OverlapRatio(BBox{200, 200, 300, 300}); r != 0 {
		t.Errorf("OverlapRatio(disjoint) = %v, want 0", r)
	}
}

// ============================================================================
// Style Tests
// ============================================================================

func TestDefaultStyle(t *testing.T) {
	s := DefaultStyle()
	if s.Bold || s.Italic || s.Underline {
		t.Error("DefaultStyle() has decorations set")
	}
	if s.FontSizePt != 12 {
		t.Errorf("FontSizePt = %v, want 12", s.FontSizePt)
	}
	if s.Align != AlignLeft {
		t.Errorf("Align = %v, want left", s.Align)
	}
	if s.Foreground != nil || s.Background != nil {
		t.Error("DefaultStyle() has colors set")
	}
}

func TestStyleEqualComparesColorsByValue(t *testing.T) {
	red1 := &RGB{255, 0, 0}
	red2 := &RGB{255, 0, 0}

	a := DefaultStyle()
	a.Foreground = red1
	b := DefaultStyle()
	b.Foreground = red2

	if !a.Equal(b) {
		t.Error("styles with equal color values should be Equal")
	}

	b.Foreground = &RGB{0, 0, 255}
	if a.Equal(b) {
		t.Error("styles with different colors should not be Equal")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"366092", RGB{0x36, 0x60, 0x92}, true},
		{"#F5F5F5", RGB{0xF5, 0xF5, 0xF5}, true},
		{"FF366092", RGB{0x36, 0x60, 0x92}, true}, // ARGB with alpha dropped
		{"xyz", RGB{}, false},
		{"", RGB{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseHex(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseHex(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRGBHex(t *testing.T) {
	c := RGB{0x36, 0x60, 0x92}
	if c.Hex() != "366092" {
		t.Errorf("Hex() = %q", c.Hex())
	}
	if c.CSS() != "#366092" {
		t.Errorf("CSS() = %q", c.CSS())
	}
	if !(RGB{255, 255, 255}).IsWhite() {
		t.Error("white should report IsWhite")
	}
}

// ============================================================================
// Table Tests
// ============================================================================

func TestTableNormalizePadsShortRows(t *testing.T) {
	table := &Table{Rows: [][]Cell{
		{textCell("a"), textCell("b"), textCell("c")},
		{textCell("d")},
	}}
	table.Normalize()

	if table.ColCount() != 3 {
		t.Fatalf("ColCount() = %d, want 3", table.ColCount())
	}
	for i, row := range table.Rows {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", i, len(row))
		}
	}
	if !table.Rows[1][2].IsEmpty() {
		t.Error("padded cell should be empty")
	}
}

func TestTableNormalizeTruncates(t *testing.T) {
	table := NewTable(MaxTableRows+50, 2)
	table.Normalize()
	if table.RowCount() != MaxTableRows {
		t.Errorf("RowCount() = %d, want %d", table.RowCount(), MaxTableRows)
	}
}

func TestTableFillRatio(t *testing.T) {
	table := NewTable(2, 2)
	table.Rows[0][0] = textCell("x")
	if r := table.FillRatio(); r != 0.25 {
		t.Errorf("FillRatio() = %v, want 0.25", r)
	}
}

// ============================================================================
// Page / Document Tests
// ============================================================================

func TestPageSortByPositionIsStable(t *testing.T) {
	page := &Page{}
	table := &Table{BBox: BBox{0, 100, 200, 150}}
	block := &TextBlock{
		Runs: []TextRun{{Text: "after", Style: DefaultStyle()}},
		BBox: BBox{0, 100, 200, 110},
	}
	top := &TextBlock{
		Runs: []TextRun{{Text: "first", Style: DefaultStyle()}},
		BBox: BBox{0, 10, 200, 20},
	}
	// Table appended before the equal-Y text block; stable sort keeps it
	// first.
	page.AddElement(table)
	page.AddElement(block)
	page.AddElement(top)
	page.SortByPosition()

	if page.Elements[0] != top {
		t.Error("topmost element should sort first")
	}
	if page.Elements[1] != table {
		t.Error("table should precede text block at equal Y")
	}
}

func TestDocumentAddPageNumbers(t *testing.T) {
	doc := NewDocument()
	doc.AddPage(&Page{})
	doc.AddPage(&Page{})
	if doc.Pages[0].Number != 1 || doc.Pages[1].Number != 2 {
		t.Errorf("page numbers = %d, %d", doc.Pages[0].Number, doc.Pages[1].Number)
	}
}

func TestPaperEscalate(t *testing.T) {
	if PaperLetter.Escalate() != PaperLegal {
		t.Error("letter should escalate to legal")
	}
	if PaperTabloid.Escalate() != PaperTabloid {
		t.Error("tabloid should not escalate further")
	}
}

func TestPageSetupDimensions(t *testing.T) {
	s := PageSetup{Paper: PaperLetter, Landscape: true}
	w, h := s.Dimensions()
	if w != 792 || h != 612 {
		t.Errorf("landscape letter = %v x %v, want 792 x 612", w, h)
	}
}

func textCell(s string) Cell {
	return Cell{Runs: []TextRun{{Text: s, Style: DefaultStyle()}}}
}
