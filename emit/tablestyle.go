package emit

import (
	"golang.org/x/text/width"

	"github.com/tsawler/docshift/model"
)

// Default table decoration shared by every emitter.
var (
	// HeaderFill is the accent color applied to header rows.
	HeaderFill = model.RGB{R: 0x36, G: 0x60, B: 0x92}
	// HeaderText is the light foreground paired with HeaderFill.
	HeaderText = model.RGB{R: 0xFF, G: 0xFF, B: 0xFF}
	// AltRowFill is the shade used for every second data row.
	AltRowFill = model.RGB{R: 0xF5, G: 0xF5, B: 0xF5}
)

// Column width bounds in points.
const (
	minColumnWidth  = 40.0
	maxColumnWidth  = 200.0
	pointsPerChar   = 6.5
	columnWidthBase = 12.0
)

// CellDecoration is the resolved presentation of one table cell after
// the default styling rules and any extracted styling are combined.
type CellDecoration struct {
	Fill      *model.RGB // background, nil for white
	TextColor *model.RGB // foreground override, nil keeps the run color
	Bold      bool
}

// DecorateTable resolves the fill, text color, and weight of every cell.
// Row 0 gets the header accent unless the source supplied its own
// non-white background, which is preserved instead. Data rows alternate
// starting shaded (the first data row gets the light shade, the second
// stays white), except rows where the source set any explicit cell
// background: those keep exactly what was extracted.
func DecorateTable(t *model.Table) [][]CellDecoration {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}
	out := make([][]CellDecoration, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]CellDecoration, len(row))
		explicit := rowHasExplicitFill(row)
		for j, cell := range row {
			out[i][j] = decorateCell(cell, i, explicit)
		}
	}
	return out
}

func decorateCell(cell model.Cell, row int, rowExplicit bool) CellDecoration {
	if row == 0 {
		if cell.Background != nil && !cell.Background.IsWhite() {
			bg := *cell.Background
			return CellDecoration{Fill: &bg, Bold: true}
		}
		fill, text := HeaderFill, HeaderText
		return CellDecoration{Fill: &fill, TextColor: &text, Bold: true}
	}

	if rowExplicit {
		var fill *model.RGB
		if cell.Background != nil {
			bg := *cell.Background
			fill = &bg
		}
		return CellDecoration{Fill: fill}
	}
	// Shading starts on the first data row and alternates from there.
	if row%2 == 1 {
		alt := AltRowFill
		return CellDecoration{Fill: &alt}
	}
	return CellDecoration{}
}

func rowHasExplicitFill(row []model.Cell) bool {
	for _, cell := range row {
		if cell.Background != nil {
			return true
		}
	}
	return false
}

// ColumnWidths sizes a table's columns proportionally to their longest
// cell text, clamped per column, then scaled down uniformly if the total
// exceeds the available width.
func ColumnWidths(t *model.Table, available float64) []float64 {
	cols := t.ColCount()
	if cols == 0 {
		return nil
	}

	widths := make([]float64, cols)
	total := 0.0
	for c := 0; c < cols; c++ {
		longest := 0
		for r := range t.Rows {
			if n := displayWidth(t.CellText(r, c)); n > longest {
				longest = n
			}
		}
		w := columnWidthBase + pointsPerChar*float64(longest)
		if w < minColumnWidth {
			w = minColumnWidth
		}
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		widths[c] = w
		total += w
	}

	if available > 0 && total > available {
		scale := available / total
		for c := range widths {
			widths[c] *= scale
		}
	}
	return widths
}

// displayWidth counts terminal-style cells, treating East Asian wide
// glyphs as two so CJK tables do not end up undersized.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
