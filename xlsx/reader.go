package xlsx

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/docshift/layout"
	"github.com/tsawler/docshift/model"
)

// rowHeight is the synthetic row pitch used for bounding boxes; sheets
// have no point geometry of their own.
const rowHeight = 20.0

// Reader extracts Excel workbooks.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader logging to slog.Default().
func NewReader() *Reader {
	return &Reader{logger: slog.Default()}
}

// Read parses the workbook at path, one page per sheet.
func (r *Reader) Read(path string) (*model.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", path, err)
	}
	defer f.Close()

	doc := model.NewDocument()
	styleCache := make(map[int]*excelize.Style)

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			r.logger.Warn("sheet skipped", "sheet", sheet, "error", err)
			continue
		}
		if len(rows) == 0 {
			continue
		}
		if len(rows) > model.MaxSheetRows {
			r.logger.Warn("sheet truncated", "sheet", sheet, "rows", len(rows), "cap", model.MaxSheetRows)
			rows = rows[:model.MaxSheetRows]
		}

		table := &model.Table{}
		for ri, row := range rows {
			cells := make([]model.Cell, len(row))
			for ci, value := range row {
				cells[ci] = r.buildCell(f, styleCache, sheet, ri, ci, value)
			}
			table.Rows = append(table.Rows, cells)
		}
		table.Normalize()
		table.BBox = model.BBox{
			X0: 0,
			Y0: 0,
			X1: 612,
			Y1: float64(len(table.Rows)) * rowHeight,
		}

		page := &model.Page{
			Name:   sheet,
			Width:  612,
			Height: 792,
		}
		page.AddElement(table)
		doc.AddPage(page)
	}

	if doc.PageCount() == 0 {
		return nil, fmt.Errorf("no non-empty sheets in %s", path)
	}
	return doc, nil
}

// buildCell converts one spreadsheet cell, resolving its style through
// the cached style table. Style lookup failures degrade to unstyled
// cells.
func (r *Reader) buildCell(f *excelize.File, cache map[int]*excelize.Style, sheet string, row, col int, value string) model.Cell {
	cell := model.Cell{Style: model.DefaultStyle()}
	if value != "" {
		cell.Runs = []model.TextRun{{Text: value, Style: model.DefaultStyle()}}
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return cell
	}
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return cell
	}

	style, ok := cache[styleID]
	if !ok {
		style, err = f.GetStyle(styleID)
		if err != nil {
			r.logger.Warn("cell style skipped", "cell", axis, "error", err)
			return cell
		}
		cache[styleID] = style
	}
	if style == nil {
		return cell
	}

	attrs := model.DefaultStyle()
	if style.Font != nil {
		attrs = layout.Classify("", style.Font.Size, &layout.Flags{
			Bold:          style.Font.Bold,
			Italic:        style.Font.Italic,
			Strikethrough: style.Font.Strike,
		})
		if c, ok := model.ParseHex(style.Font.Color); ok {
			attrs.Foreground = &c
		}
	}
	if fill := fillColor(style); fill != nil {
		cell.Background = fill
	}

	cell.Style = attrs
	for i := range cell.Runs {
		cell.Runs[i].Style = attrs
	}
	return cell
}

// fillColor extracts an explicit pattern fill, or nil when the cell has
// none.
func fillColor(style *excelize.Style) *model.RGB {
	if style.Fill.Type != "pattern" || style.Fill.Pattern == 0 {
		return nil
	}
	if len(style.Fill.Color) == 0 {
		return nil
	}
	c, ok := model.ParseHex(style.Fill.Color[0])
	if !ok {
		return nil
	}
	return &c
}
