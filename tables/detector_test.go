package tables

import (
	"testing"

	"github.com/tsawler/docshift/layout"
	"github.com/tsawler/docshift/model"
)

func gridSpan(text string, x, y float64) layout.Span {
	return layout.Span{
		Text:     text,
		BBox:     model.BBox{X0: x, Y0: y, X1: x + 40, Y1: y + 12},
		FontName: "Helvetica",
		FontSize: 10,
	}
}

func TestDetectFindsAlignedGrid(t *testing.T) {
	d := NewDetector()

	var spans []layout.Span
	xs := []float64{72, 200, 330}
	ys := []float64{100, 120, 140}
	for _, y := range ys {
		for _, x := range xs {
			spans = append(spans, gridSpan("cell", x, y))
		}
	}

	tables := d.Detect(spans)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	table := tables[0]
	if table.RowCount() != 3 || table.ColCount() != 3 {
		t.Errorf("grid = %dx%d, want 3x3", table.RowCount(), table.ColCount())
	}
	if table.CellText(1, 1) != "cell" {
		t.Errorf("cell(1,1) = %q", table.CellText(1, 1))
	}
	if !table.BBox.IsValid() {
		t.Error("table bbox should be valid")
	}
}

func TestDetectIgnoresProse(t *testing.T) {
	d := NewDetector()

	// Paragraph lines share one left edge; a single column is not a
	// table.
	spans := []layout.Span{
		gridSpan("First line of running text", 72, 100),
		gridSpan("Second line of running text", 72, 115),
		gridSpan("Third line of running text", 72, 130),
	}

	if tables := d.Detect(spans); len(tables) != 0 {
		t.Fatalf("got %d tables from prose, want 0", len(tables))
	}
}

func TestDetectRaggedSpansLackColumnSupport(t *testing.T) {
	d := NewDetector()

	// A second "column" appearing on only one row is a wrapped span, not
	// a column.
	spans := []layout.Span{
		gridSpan("alpha", 72, 100),
		gridSpan("beta", 72, 120),
		gridSpan("stray", 250, 120),
		gridSpan("gamma", 72, 140),
	}

	if tables := d.Detect(spans); len(tables) != 0 {
		t.Fatalf("got %d tables, want 0", len(tables))
	}
}

func TestValidateRejectsSparseGrid(t *testing.T) {
	d := NewDetector()

	// 3x4 grid with 2 filled cells: fill ratio ~17%, below the 30%
	// threshold.
	table := model.NewTable(3, 4)
	table.Rows[0][0] = model.Cell{Runs: []model.TextRun{{Text: "a"}}}
	table.Rows[2][3] = model.Cell{Runs: []model.TextRun{{Text: "b"}}}

	if d.Validate(table) {
		t.Error("sparse grid should be rejected")
	}
}

func TestValidateRejectsSingleRow(t *testing.T) {
	d := NewDetector()
	table := model.NewTable(1, 4)
	for i := range table.Rows[0] {
		table.Rows[0][i] = model.Cell{Runs: []model.TextRun{{Text: "x"}}}
	}
	if d.Validate(table) {
		t.Error("single-row candidate should be rejected")
	}
}

func TestValidateAcceptsDenseGrid(t *testing.T) {
	d := NewDetector()
	table := model.NewTable(2, 2)
	table.Rows[0][0] = model.Cell{Runs: []model.TextRun{{Text: "a"}}}
	table.Rows[0][1] = model.Cell{Runs: []model.TextRun{{Text: "b"}}}
	table.Rows[1][0] = model.Cell{Runs: []model.TextRun{{Text: "c"}}}

	if !d.Validate(table) {
		t.Error("75% filled 2x2 grid should be accepted")
	}
}

func TestDetectSplitsDistantClusters(t *testing.T) {
	d := NewDetector()

	var spans []layout.Span
	for _, y := range []float64{100, 120} {
		spans = append(spans, gridSpan("a", 72, y), gridSpan("b", 200, y))
	}
	// Far below the first grid, past the cluster gap.
	for _, y := range []float64{400, 420} {
		spans = append(spans, gridSpan("c", 72, y), gridSpan("d", 200, y))
	}

	tables := d.Detect(spans)
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
}
