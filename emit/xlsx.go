package emit

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/docshift/model"
)

// XLSXEmitter renders a document as a workbook, one sheet per page.
// Tables become styled cell ranges; free text lands in column A between
// them. Sheets are capped at model.MaxSheetRows rows.
type XLSXEmitter struct {
	logger *slog.Logger
}

// NewXLSXEmitter creates an XLSX emitter logging to slog.Default().
func NewXLSXEmitter() *XLSXEmitter {
	return &XLSXEmitter{logger: slog.Default()}
}

// EmitFile renders the document and writes a .xlsx file to outPath.
func (e *XLSXEmitter) EmitFile(doc *model.Document, outPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	styles := newStyleCache(f)

	for i, page := range doc.Pages {
		sheet := sheetName(page, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("add sheet %s: %w", sheet, err)
			}
		}
		if err := e.emitSheet(f, styles, sheet, page); err != nil {
			return err
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// emitSheet walks the page's elements in order, advancing a row cursor.
func (e *XLSXEmitter) emitSheet(f *excelize.File, styles *styleCache, sheet string, page *model.Page) error {
	row := 1
	for _, el := range page.Elements {
		if row > model.MaxSheetRows {
			e.logger.Warn("sheet truncated", "sheet", sheet, "max_rows", model.MaxSheetRows)
			break
		}
		var err error
		switch v := el.(type) {
		case *model.TextBlock:
			row, err = e.emitText(f, styles, sheet, v, row)
		case *model.Table:
			row, err = e.emitTable(f, styles, sheet, v, row)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *XLSXEmitter) emitText(f *excelize.File, styles *styleCache, sheet string, block *model.TextBlock, row int) (int, error) {
	text := strings.TrimSpace(block.Text())
	if text == "" {
		return row, nil
	}
	if block.Role == model.RoleListItem && !strings.HasPrefix(text, "•") && !block.Ordered {
		text = "• " + text
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	if err := f.SetCellValue(sheet, cell, text); err != nil {
		return row, fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
	}

	var style model.StyleAttributes
	if len(block.Runs) > 0 {
		style = block.Runs[0].Style
	}
	if block.Role == model.RoleHeading {
		style.Bold = true
	}
	id, err := styles.textStyle(style)
	if err != nil {
		return row, err
	}
	if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
		return row, err
	}
	return row + 1, nil
}

func (e *XLSXEmitter) emitTable(f *excelize.File, styles *styleCache, sheet string, t *model.Table, startRow int) (int, error) {
	deco := DecorateTable(t)
	row := startRow

	for i, cells := range t.Rows {
		if row > model.MaxSheetRows {
			e.logger.Warn("table truncated", "sheet", sheet, "max_rows", model.MaxSheetRows)
			return row, nil
		}
		for j, cell := range cells {
			name, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return row, err
			}
			if text := cell.Text(); text != "" {
				if err := f.SetCellValue(sheet, name, text); err != nil {
					return row, fmt.Errorf("set cell %s!%s: %w", sheet, name, err)
				}
			}
			id, err := styles.cellStyle(cell.Style, deco[i][j])
			if err != nil {
				return row, err
			}
			if err := f.SetCellStyle(sheet, name, name, id); err != nil {
				return row, err
			}
		}
		row++
	}

	e.setColumnWidths(f, sheet, t)
	return row + 1, nil
}

// setColumnWidths maps the shared point-based widths to Excel character
// units, roughly seven points per unit.
func (e *XLSXEmitter) setColumnWidths(f *excelize.File, sheet string, t *model.Table) {
	for c, pts := range ColumnWidths(t, 0) {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			continue
		}
		if err := f.SetColWidth(sheet, col, col, pts/7.0); err != nil {
			e.logger.Warn("column width skipped", "sheet", sheet, "column", col, "error", err)
		}
	}
}

// styleCache deduplicates excelize style registrations, which are
// append-only per workbook.
type styleCache struct {
	f   *excelize.File
	ids map[string]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, ids: make(map[string]int)}
}

func (c *styleCache) textStyle(s model.StyleAttributes) (int, error) {
	return c.register(buildFont(s, false, nil), nil, false)
}

func (c *styleCache) cellStyle(s model.StyleAttributes, d CellDecoration) (int, error) {
	return c.register(buildFont(s, d.Bold, d.TextColor), d.Fill, true)
}

func (c *styleCache) register(font *excelize.Font, fill *model.RGB, bordered bool) (int, error) {
	key := fmt.Sprintf("%+v|%v|%v", *font, fill, bordered)
	if id, ok := c.ids[key]; ok {
		return id, nil
	}

	style := &excelize.Style{Font: font}
	if fill != nil {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill.Hex()}}
	}
	if bordered {
		style.Border = gridBorder()
	}

	id, err := c.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("register style: %w", err)
	}
	c.ids[key] = id
	return id, nil
}

func buildFont(s model.StyleAttributes, forceBold bool, textColor *model.RGB) *excelize.Font {
	font := &excelize.Font{
		Bold:   s.Bold || forceBold,
		Italic: s.Italic,
		Strike: s.Strikethrough,
	}
	if s.Underline {
		font.Underline = "single"
	}
	if s.FontSizePt > 0 {
		font.Size = s.FontSizePt
	}
	switch {
	case textColor != nil:
		font.Color = textColor.Hex()
	case s.Foreground != nil:
		font.Color = s.Foreground.Hex()
	}
	return font
}

func gridBorder() []excelize.Border {
	const gray = "CCCCCC"
	return []excelize.Border{
		{Type: "left", Color: gray, Style: 1},
		{Type: "right", Color: gray, Style: 1},
		{Type: "top", Color: gray, Style: 1},
		{Type: "bottom", Color: gray, Style: 1},
	}
}

// sheetName derives a legal, unique-enough sheet name from the page.
func sheetName(page *model.Page, index int) string {
	name := strings.TrimSpace(page.Name)
	if name == "" {
		return fmt.Sprintf("Page %d", index+1)
	}
	name = strings.TrimSuffix(name, ".xml")
	replacer := strings.NewReplacer("[", "", "]", "", ":", "", "*", "", "?", "", "/", "-", "\\", "-")
	name = replacer.Replace(name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
