package emit

import (
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/tsawler/docshift/model"
)

// HTMLEmitter renders a document as a standalone HTML page. All styling
// is inline or in an embedded stylesheet and images are embedded as data
// URIs, so the output is self-contained and can be handed straight to a
// browser for printing.
type HTMLEmitter struct{}

// NewHTMLEmitter creates an HTML emitter.
func NewHTMLEmitter() *HTMLEmitter {
	return &HTMLEmitter{}
}

// EmitFile renders the document and writes it to path.
func (e *HTMLEmitter) EmitFile(doc *model.Document, path string) error {
	if err := os.WriteFile(path, []byte(e.Emit(doc)), 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

// Emit renders the document as a complete HTML page.
func (e *HTMLEmitter) Emit(doc *model.Document) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")

	title := doc.Metadata.Title
	if title == "" {
		title = "Converted Document"
	}
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(title))
	sb.WriteString("<style>\n")
	sb.WriteString(stylesheet)
	sb.WriteString("</style>\n</head>\n<body>\n")

	for i, page := range doc.Pages {
		if i > 0 {
			sb.WriteString("<div class=\"page-break\"></div>\n")
		}
		e.emitPage(&sb, page)
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

const stylesheet = `body { font-family: Helvetica, Arial, sans-serif; font-size: 12pt; margin: 2em; }
table { border-collapse: collapse; margin: 1em 0; }
td, th { border: 1px solid #ccc; padding: 4px 8px; vertical-align: top; }
img { max-width: 100%; }
.page-break { page-break-after: always; }
`

func (e *HTMLEmitter) emitPage(sb *strings.Builder, page *model.Page) {
	lists := &listStack{sb: sb}
	for _, el := range page.Elements {
		block, isText := el.(*model.TextBlock)
		if !isText || block.Role != model.RoleListItem {
			lists.closeAll()
		}

		switch v := el.(type) {
		case *model.TextBlock:
			e.emitTextBlock(sb, lists, v)
		case *model.Table:
			e.emitTable(sb, v)
		case *model.Image:
			e.emitImage(sb, v)
		case *model.Rule:
			sb.WriteString("<hr>\n")
		}
	}
	lists.closeAll()
}

func (e *HTMLEmitter) emitTextBlock(sb *strings.Builder, lists *listStack, block *model.TextBlock) {
	switch block.Role {
	case model.RoleHeading:
		level := block.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		fmt.Fprintf(sb, "<h%d>%s</h%d>\n", level, runsHTML(block.Runs), level)
	case model.RoleListItem:
		lists.openTo(block.Depth, block.Ordered)
		fmt.Fprintf(sb, "<li>%s</li>\n", runsHTML(block.Runs))
	default:
		fmt.Fprintf(sb, "<p>%s</p>\n", runsHTML(block.Runs))
	}
}

func (e *HTMLEmitter) emitTable(sb *strings.Builder, t *model.Table) {
	deco := DecorateTable(t)
	widths := ColumnWidths(t, 0)

	sb.WriteString("<table>\n")
	if len(widths) > 0 {
		sb.WriteString("<colgroup>")
		for _, w := range widths {
			fmt.Fprintf(sb, "<col style=\"width:%.0fpt\">", w)
		}
		sb.WriteString("</colgroup>\n")
	}
	for i, row := range t.Rows {
		sb.WriteString("<tr>")
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		for j, cell := range row {
			style := cellCSS(deco[i][j])
			if style != "" {
				fmt.Fprintf(sb, "<%s style=\"%s\">", tag, style)
			} else {
				fmt.Fprintf(sb, "<%s>", tag)
			}
			sb.WriteString(runsHTML(cell.Runs))
			fmt.Fprintf(sb, "</%s>", tag)
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n")
}

func (e *HTMLEmitter) emitImage(sb *strings.Builder, img *model.Image) {
	if len(img.Data) == 0 {
		return
	}
	mime := "image/" + img.Format.String()
	if img.Format == model.ImageFormatUnknown {
		mime = "application/octet-stream"
	}
	encoded := base64.StdEncoding.EncodeToString(img.Data)

	w := img.BBox.Width()
	if w > 0 {
		fmt.Fprintf(sb, "<img src=\"data:%s;base64,%s\" style=\"width:%.0fpt\">\n", mime, encoded, w)
		return
	}
	fmt.Fprintf(sb, "<img src=\"data:%s;base64,%s\">\n", mime, encoded)
}

// cellCSS renders a resolved cell decoration as an inline style.
func cellCSS(d CellDecoration) string {
	var parts []string
	if d.Fill != nil {
		parts = append(parts, "background-color:"+d.Fill.CSS())
	}
	if d.TextColor != nil {
		parts = append(parts, "color:"+d.TextColor.CSS())
	}
	if d.Bold {
		parts = append(parts, "font-weight:bold")
	}
	return strings.Join(parts, ";")
}

// runsHTML renders styled runs as escaped text wrapped in spans where the
// style departs from the default.
func runsHTML(runs []model.TextRun) string {
	var sb strings.Builder
	for _, run := range runs {
		text := html.EscapeString(run.Text)
		if style := runCSS(run.Style); style != "" {
			fmt.Fprintf(&sb, "<span style=\"%s\">%s</span>", style, text)
		} else {
			sb.WriteString(text)
		}
	}
	return sb.String()
}

func runCSS(s model.StyleAttributes) string {
	var parts []string
	if s.Bold {
		parts = append(parts, "font-weight:bold")
	}
	if s.Italic {
		parts = append(parts, "font-style:italic")
	}
	var deco []string
	if s.Underline {
		deco = append(deco, "underline")
	}
	if s.Strikethrough {
		deco = append(deco, "line-through")
	}
	if len(deco) > 0 {
		parts = append(parts, "text-decoration:"+strings.Join(deco, " "))
	}
	if s.FontSizePt > 0 && s.FontSizePt != 12 {
		parts = append(parts, fmt.Sprintf("font-size:%.4gpt", s.FontSizePt))
	}
	if s.Foreground != nil {
		parts = append(parts, "color:"+s.Foreground.CSS())
	}
	if s.Superscript {
		parts = append(parts, "vertical-align:super;font-size:smaller")
	}
	if s.Subscript {
		parts = append(parts, "vertical-align:sub;font-size:smaller")
	}
	return strings.Join(parts, ";")
}

// listStack tracks open ul/ol tags while consecutive list items stream
// through, so nested items render as nested lists.
type listStack struct {
	sb      *strings.Builder
	ordered []bool
}

// openTo opens or closes lists until exactly depth+1 levels are open,
// with the innermost matching the requested ordering.
func (l *listStack) openTo(depth int, ordered bool) {
	if depth < 0 {
		depth = 0
	}
	for len(l.ordered) > depth+1 {
		l.pop()
	}
	if len(l.ordered) == depth+1 && l.ordered[depth] != ordered {
		l.pop()
	}
	for len(l.ordered) < depth+1 {
		l.push(ordered)
	}
}

func (l *listStack) push(ordered bool) {
	if ordered {
		l.sb.WriteString("<ol>\n")
	} else {
		l.sb.WriteString("<ul>\n")
	}
	l.ordered = append(l.ordered, ordered)
}

func (l *listStack) pop() {
	last := len(l.ordered) - 1
	if l.ordered[last] {
		l.sb.WriteString("</ol>\n")
	} else {
		l.sb.WriteString("</ul>\n")
	}
	l.ordered = l.ordered[:last]
}

func (l *listStack) closeAll() {
	for len(l.ordered) > 0 {
		l.pop()
	}
}
