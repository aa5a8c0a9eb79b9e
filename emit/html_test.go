package emit

import (
	"strings"
	"testing"

	"github.com/tsawler/docshift/model"
)

func buildTestDocument() *model.Document {
	doc := model.NewDocument()
	doc.Metadata.Title = "Report & Summary"

	page := &model.Page{Width: 612, Height: 792}
	page.AddElement(&model.TextBlock{
		Runs: []model.TextRun{{Text: "Annual Report", Style: model.StyleAttributes{Bold: true, FontSizePt: 24}}},
		Role: model.RoleHeading, Level: 1,
		BBox: model.BBox{X0: 72, Y0: 72, X1: 540, Y1: 96},
	})
	page.AddElement(&model.TextBlock{
		Runs: []model.TextRun{
			{Text: "Plain then ", Style: model.DefaultStyle()},
			{Text: "bold", Style: model.StyleAttributes{Bold: true, FontSizePt: 12}},
		},
		BBox: model.BBox{X0: 72, Y0: 110, X1: 540, Y1: 124},
	})
	page.AddElement(&model.TextBlock{
		Runs: []model.TextRun{{Text: "first item", Style: model.DefaultStyle()}},
		Role: model.RoleListItem,
		BBox: model.BBox{X0: 72, Y0: 140, X1: 540, Y1: 154},
	})
	page.AddElement(&model.TextBlock{
		Runs:    []model.TextRun{{Text: "nested step", Style: model.DefaultStyle()}},
		Role:    model.RoleListItem,
		Ordered: true, Depth: 1,
		BBox: model.BBox{X0: 90, Y0: 158, X1: 540, Y1: 172},
	})
	page.AddElement(&model.Table{
		Rows: [][]model.Cell{
			{textCell("Name"), textCell("Total")},
			{textCell("West"), textCell("42")},
		},
		BBox: model.BBox{X0: 72, Y0: 200, X1: 400, Y1: 260},
	})
	page.AddElement(&model.Rule{BBox: model.BBox{X0: 72, Y0: 280, X1: 540, Y1: 281}})
	doc.AddPage(page)

	second := &model.Page{Width: 612, Height: 792}
	second.AddElement(&model.TextBlock{
		Runs: []model.TextRun{{Text: "Appendix", Style: model.DefaultStyle()}},
		BBox: model.BBox{X0: 72, Y0: 72, X1: 540, Y1: 86},
	})
	doc.AddPage(second)

	return doc
}

func TestHTMLEmitStructure(t *testing.T) {
	out := NewHTMLEmitter().Emit(buildTestDocument())

	for _, want := range []string{
		"<title>Report &amp; Summary</title>",
		"<h1>",
		"Annual Report",
		"<span style=\"font-weight:bold\">bold</span>",
		"<ul>",
		"<li>first item</li>",
		"<ol>",
		"<li>nested step</li>",
		"<table>",
		"<hr>",
		"<div class=\"page-break\"></div>",
		"Appendix",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestHTMLEmitListNesting(t *testing.T) {
	out := NewHTMLEmitter().Emit(buildTestDocument())

	// The ordered nested list opens inside the unordered one and both
	// close before the table.
	ulAt := strings.Index(out, "<ul>")
	olAt := strings.Index(out, "<ol>")
	tableAt := strings.Index(out, "<table>")
	if ulAt == -1 || olAt == -1 || tableAt == -1 {
		t.Fatal("expected list and table markup")
	}
	if !(ulAt < olAt && olAt < tableAt) {
		t.Errorf("list nesting out of order: ul=%d ol=%d table=%d", ulAt, olAt, tableAt)
	}
	if closing := strings.Index(out, "</ul>"); closing == -1 || closing > tableAt {
		t.Error("unordered list should close before the table")
	}
}

func TestHTMLEmitTableDecoration(t *testing.T) {
	out := NewHTMLEmitter().Emit(buildTestDocument())

	if !strings.Contains(out, "background-color:#366092") {
		t.Error("header accent fill missing")
	}
	if !strings.Contains(out, "color:#ffffff") {
		t.Error("header text color missing")
	}
	if !strings.Contains(out, "<th style=") {
		t.Error("header cells should carry inline styles")
	}
	if !strings.Contains(out, "<colgroup>") {
		t.Error("column widths missing")
	}
}

func TestHTMLEmitEscapesText(t *testing.T) {
	doc := model.NewDocument()
	page := &model.Page{Width: 612, Height: 792}
	page.AddElement(&model.TextBlock{
		Runs: []model.TextRun{{Text: "a < b & c", Style: model.DefaultStyle()}},
		BBox: model.BBox{X0: 0, Y0: 0, X1: 100, Y1: 14},
	})
	doc.AddPage(page)

	out := NewHTMLEmitter().Emit(doc)
	if !strings.Contains(out, "a &lt; b &amp; c") {
		t.Error("text not escaped")
	}
	if strings.Contains(out, "a < b") {
		t.Error("raw markup leaked into output")
	}
}
