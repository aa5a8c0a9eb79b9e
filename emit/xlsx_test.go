package emit

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/docshift/model"
)

func TestXLSXEmitRoundTrip(t *testing.T) {
	doc := model.NewDocument()
	page := &model.Page{Name: "Results"}
	page.AddElement(&model.TextBlock{
		Runs: []model.TextRun{{Text: "Quarterly totals", Style: model.StyleAttributes{Bold: true, FontSizePt: 16}}},
		Role: model.RoleHeading, Level: 2,
		BBox: model.BBox{Y0: 0, Y1: 14},
	})
	page.AddElement(&model.Table{
		Rows: [][]model.Cell{
			{textCell("Region"), textCell("Total")},
			{textCell("West"), textCell("42")},
		},
		BBox: model.BBox{Y0: 20, Y1: 60},
	})
	doc.AddPage(page)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := NewXLSXEmitter().EmitFile(doc, path); err != nil {
		t.Fatalf("EmitFile() error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening emitted workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Results" {
		t.Fatalf("sheets = %v, want [Results]", sheets)
	}

	heading, err := f.GetCellValue("Results", "A1")
	if err != nil || heading != "Quarterly totals" {
		t.Errorf("A1 = %q (err %v), want heading text", heading, err)
	}
	for cell, want := range map[string]string{
		"A2": "Region", "B2": "Total",
		"A3": "West", "B3": "42",
	} {
		got, err := f.GetCellValue("Results", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestXLSXEmitHeaderStyle(t *testing.T) {
	doc := model.NewDocument()
	page := &model.Page{Name: "Sheet"}
	page.AddElement(&model.Table{
		Rows: [][]model.Cell{
			{textCell("Name")},
			{textCell("value")},
		},
	})
	doc.AddPage(page)

	path := filepath.Join(t.TempDir(), "styled.xlsx")
	if err := NewXLSXEmitter().EmitFile(doc, path); err != nil {
		t.Fatalf("EmitFile() error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening emitted workbook: %v", err)
	}
	defer f.Close()

	styleID, err := f.GetCellStyle("Sheet", "A1")
	if err != nil {
		t.Fatalf("GetCellStyle: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	// Stored fills are ARGB; compare ignoring the alpha prefix.
	if len(style.Fill.Color) == 0 || !strings.HasSuffix(style.Fill.Color[0], HeaderFill.Hex()) {
		t.Errorf("header fill = %v, want %s", style.Fill.Color, HeaderFill.Hex())
	}
	if style.Font == nil || !style.Font.Bold {
		t.Error("header font should be bold")
	}
}

func TestXLSXEmitCapsRows(t *testing.T) {
	table := &model.Table{}
	for i := 0; i < model.MaxSheetRows+25; i++ {
		table.Rows = append(table.Rows, []model.Cell{textCell("row")})
	}

	doc := model.NewDocument()
	page := &model.Page{Name: "Big"}
	page.AddElement(table)
	doc.AddPage(page)

	path := filepath.Join(t.TempDir(), "big.xlsx")
	if err := NewXLSXEmitter().EmitFile(doc, path); err != nil {
		t.Fatalf("EmitFile() error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening emitted workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Big")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) > model.MaxSheetRows {
		t.Errorf("emitted %d rows, want at most %d", len(rows), model.MaxSheetRows)
	}
}
