package htmldoc

import (
	"strings"
	"testing"

	"github.com/tsawler/docshift/model"
)

func parseFixture(t *testing.T, src string) *model.Document {
	t.Helper()
	doc, err := NewReader().Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return doc
}

func TestParseHeadingsAndParagraphs(t *testing.T) {
	doc := parseFixture(t, `<html><head><title>Report</title></head><body>
		<h1>Overview</h1>
		<p>First paragraph with <b>bold</b> and <i>italic</i> text.</p>
		<h2>Details</h2>
	</body></html>`)

	if doc.Metadata.Title != "Report" {
		t.Errorf("title = %q", doc.Metadata.Title)
	}

	page := doc.Pages[0]
	if len(page.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(page.Elements))
	}

	h1 := page.Elements[0].(*model.TextBlock)
	if h1.Role != model.RoleHeading || h1.Level != 1 || h1.Text() != "Overview" {
		t.Errorf("first element = %v level %d %q", h1.Role, h1.Level, h1.Text())
	}
	if !h1.Runs[0].Style.Bold {
		t.Error("heading runs should be bold")
	}

	para := page.Elements[1].(*model.TextBlock)
	if para.Role != model.RoleParagraph {
		t.Errorf("second element role = %v", para.Role)
	}
	if got := para.Text(); got != "First paragraph with bold and italic text." {
		t.Errorf("paragraph text = %q", got)
	}

	var sawBold, sawItalic bool
	for _, run := range para.Runs {
		if run.Style.Bold && strings.Contains(run.Text, "bold") {
			sawBold = true
		}
		if run.Style.Italic && strings.Contains(run.Text, "italic") {
			sawItalic = true
		}
	}
	if !sawBold || !sawItalic {
		t.Errorf("inline styles lost: bold=%v italic=%v", sawBold, sawItalic)
	}

	h2 := page.Elements[2].(*model.TextBlock)
	if h2.Level != 2 {
		t.Errorf("h2 level = %d", h2.Level)
	}
}

func TestParseLists(t *testing.T) {
	doc := parseFixture(t, `<body>
		<ul><li>one</li><li>two</li></ul>
		<ol><li>first</li></ol>
	</body>`)

	page := doc.Pages[0]
	if len(page.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(page.Elements))
	}

	one := page.Elements[0].(*model.TextBlock)
	if one.Role != model.RoleListItem || one.Ordered || one.Depth != 0 {
		t.Errorf("ul item = %v ordered=%v depth=%d", one.Role, one.Ordered, one.Depth)
	}
	first := page.Elements[2].(*model.TextBlock)
	if !first.Ordered {
		t.Error("ol item should be ordered")
	}
}

func TestParseNestedListDepth(t *testing.T) {
	doc := parseFixture(t, `<body><ul><li>outer</li><ul><li>inner</li></ul></ul></body>`)

	page := doc.Pages[0]
	var inner *model.TextBlock
	for _, e := range page.Elements {
		if tb, ok := e.(*model.TextBlock); ok && tb.Text() == "inner" {
			inner = tb
		}
	}
	if inner == nil {
		t.Fatal("inner item missing")
	}
	if inner.Depth != 1 {
		t.Errorf("inner depth = %d, want 1", inner.Depth)
	}
}

func TestParseListNestedInsideItem(t *testing.T) {
	doc := parseFixture(t, `<body><ul>
		<li>parent<ul><li>child</li></ul></li>
		<li>sibling</li>
	</ul></body>`)

	page := doc.Pages[0]
	if len(page.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(page.Elements))
	}

	parent := page.Elements[0].(*model.TextBlock)
	if parent.Text() != "parent" {
		t.Errorf("parent item text = %q, want the nested list excluded", parent.Text())
	}
	if parent.Depth != 0 {
		t.Errorf("parent depth = %d, want 0", parent.Depth)
	}

	child := page.Elements[1].(*model.TextBlock)
	if child.Role != model.RoleListItem || child.Text() != "child" {
		t.Fatalf("second element = %v %q, want the nested item", child.Role, child.Text())
	}
	if child.Depth != 1 {
		t.Errorf("child depth = %d, want 1", child.Depth)
	}
	if child.Ordered {
		t.Error("child of a ul should be unordered")
	}

	sibling := page.Elements[2].(*model.TextBlock)
	if sibling.Text() != "sibling" || sibling.Depth != 0 {
		t.Errorf("sibling = %q depth %d, want %q depth 0", sibling.Text(), sibling.Depth, "sibling")
	}
}

func TestParseTableWithHeaderAndFill(t *testing.T) {
	doc := parseFixture(t, `<body><table>
		<tr><th>Name</th><th style="background-color:#ffc000">Qty</th></tr>
		<tr><td>Widget</td><td>3</td></tr>
	</table></body>`)

	page := doc.Pages[0]
	tables := page.Tables()
	if len(tables) != 1 {
		t.Fatalf("got %d tables", len(tables))
	}
	table := tables[0]
	if table.RowCount() != 2 || table.ColCount() != 2 {
		t.Fatalf("table = %dx%d", table.RowCount(), table.ColCount())
	}
	if !table.Rows[0][0].Style.Bold {
		t.Error("th cell should be bold")
	}
	if table.Rows[0][1].Background == nil || table.Rows[0][1].Background.Hex() != "FFC000" {
		t.Error("explicit cell background lost")
	}
	if table.Rows[1][0].Background != nil {
		t.Error("td without style should have no background")
	}
}

func TestParseOrderingFollowsDocument(t *testing.T) {
	doc := parseFixture(t, `<body>
		<p>first</p>
		<table><tr><td>a</td><td>b</td></tr></table>
		<p>last</p>
	</body>`)

	page := doc.Pages[0]
	for i := 1; i < len(page.Elements); i++ {
		if page.Elements[i-1].BoundingBox().Y0 > page.Elements[i].BoundingBox().Y0 {
			t.Fatal("elements out of vertical order")
		}
	}
	firstBlock := page.Elements[0].(*model.TextBlock)
	if firstBlock.Text() != "first" {
		t.Errorf("first element = %q", firstBlock.Text())
	}
	lastBlock := page.Elements[len(page.Elements)-1].(*model.TextBlock)
	if lastBlock.Text() != "last" {
		t.Errorf("last element = %q", lastBlock.Text())
	}
}

func TestParseSkipsScriptAndRemoteImages(t *testing.T) {
	doc := parseFixture(t, `<body>
		<script>var x = 1;</script>
		<img src="https://example.com/logo.png">
		<p>visible</p>
	</body>`)

	page := doc.Pages[0]
	if len(page.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(page.Elements))
	}
	if page.Elements[0].(*model.TextBlock).Text() != "visible" {
		t.Error("paragraph content lost")
	}
}
