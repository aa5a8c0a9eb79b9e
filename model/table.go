package model

import "strings"

// MaxTableRows caps the rows retained in an extracted table. Exceeding the
// cap truncates rather than fails.
const MaxTableRows = 500

// MaxSheetRows caps the rows read from or written to one spreadsheet sheet.
const MaxSheetRows = 100

// Cell represents a single table cell with styled content.
type Cell struct {
	Runs  []TextRun
	Style StyleAttributes
	// Background is the explicitly extracted fill, nil when the source
	// supplied none. Emitters preserve explicit fills over their default
	// decoration rules.
	Background *RGB
}

// Text returns the concatenated run text.
func (c Cell) Text() string {
	var sb strings.Builder
	for _, r := range c.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// IsEmpty reports whether the cell holds no text after trimming.
func (c Cell) IsEmpty() bool {
	return strings.TrimSpace(c.Text()) == ""
}

// Table represents a table with cells organized in rows and columns.
type Table struct {
	Rows [][]Cell
	BBox BBox
}

func (t *Table) Type() ElementType { return ElementTypeTable }
func (t *Table) BoundingBox() BBox { return t.BBox }

// NewTable creates a table with the given dimensions and empty cells.
func NewTable(rows, cols int) *Table {
	table := &Table{Rows: make([][]Cell, rows)}
	for i := range table.Rows {
		table.Rows[i] = make([]Cell, cols)
	}
	return table
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the widest row's cell count.
func (t *Table) ColCount() int {
	var cols int
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// Normalize pads short rows with empty cells so every row has ColCount
// cells, and truncates the table to MaxTableRows.
func (t *Table) Normalize() {
	if len(t.Rows) > MaxTableRows {
		t.Rows = t.Rows[:MaxTableRows]
	}
	cols := t.ColCount()
	for i, row := range t.Rows {
		for len(row) < cols {
			row = append(row, Cell{})
		}
		t.Rows[i] = row
	}
}

// CellText returns the text of the cell at row, col, or "" when out of
// bounds.
func (t *Table) CellText(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col].Text()
}

// FillRatio returns the fraction of non-empty cells, 0 for an empty grid.
func (t *Table) FillRatio() float64 {
	var total, filled int
	for _, row := range t.Rows {
		for _, cell := range row {
			total++
			if !cell.IsEmpty() {
				filled++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(filled) / float64(total)
}
