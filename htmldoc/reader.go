// Package htmldoc parses HTML documents into the document model.
//
// The walk is a single pass over the tag tree with all parse state held
// in a local struct threaded through calls, so the reader is reentrant
// and each Parse call is independent.
package htmldoc

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/docshift/layout"
	"github.com/tsawler/docshift/model"
)

// blockSpacing is the synthetic vertical pitch between blocks; HTML is
// flow content without positions.
const blockSpacing = 20.0

var (
	bgColorPattern = regexp.MustCompile(`background(?:-color)?\s*:\s*(#[0-9a-fA-F]{6})`)
	fgColorPattern = regexp.MustCompile(`(?:^|;)\s*color\s*:\s*(#[0-9a-fA-F]{6})`)
)

// Reader parses HTML files.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader logging to slog.Default().
func NewReader() *Reader {
	return &Reader{logger: slog.Default()}
}

// Read parses the HTML file at path. Relative image sources resolve
// against the file's directory.
func (r *Reader) Read(path string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html %s: %w", path, err)
	}
	defer f.Close()
	return r.parse(f, filepath.Dir(path))
}

// Parse parses HTML from a reader. Image sources resolve against the
// current directory.
func (r *Reader) Parse(rd io.Reader) (*model.Document, error) {
	return r.parse(rd, ".")
}

// parseState is the walker's mutable state: the synthetic vertical
// cursor, the open list stack, and the page under construction.
type parseState struct {
	page    *model.Page
	y       float64
	lists   []bool // stack of open lists; true = ordered
	baseDir string
}

func (s *parseState) place(height float64) model.BBox {
	bbox := model.BBox{X0: 0, Y0: s.y, X1: 612, Y1: s.y + height}
	s.y += height
	return bbox
}

func (r *Reader) parse(rd io.Reader, baseDir string) (*model.Document, error) {
	root, err := html.Parse(rd)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := model.NewDocument()
	doc.Metadata.Title = findTitle(root)

	state := &parseState{
		page:    &model.Page{Width: 612, Height: 792},
		baseDir: baseDir,
	}

	body := findElement(root, "body")
	if body == nil {
		body = root
	}
	r.walk(body, state)

	state.page.SortByPosition()
	doc.AddPage(state.page)
	return doc, nil
}

// walk dispatches block-level elements; inline content is collected by
// collectRuns.
func (r *Reader) walk(n *html.Node, state *parseState) {
	if n.Type != html.ElementNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			r.walk(c, state)
		}
		return
	}

	switch n.Data {
	case "script", "style", "head", "nav", "noscript":
		return

	case "h1", "h2", "h3", "h4", "h5", "h6":
		runs := collectRuns(n, layout.Flags{Bold: true}, nil)
		if len(runs) == 0 {
			return
		}
		level := int(n.Data[1] - '0')
		state.page.AddElement(&model.TextBlock{
			Runs:  runs,
			BBox:  state.place(blockSpacing),
			Role:  model.RoleHeading,
			Level: level,
		})

	case "p":
		runs := collectRuns(n, layout.Flags{}, nil)
		if len(runs) == 0 {
			return
		}
		state.page.AddElement(&model.TextBlock{
			Runs: runs,
			BBox: state.place(blockSpacing),
			Role: model.RoleParagraph,
		})

	case "ul", "ol":
		state.lists = append(state.lists, n.Data == "ol")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			r.walk(c, state)
		}
		state.lists = state.lists[:len(state.lists)-1]

	case "li":
		// Lists nested inside the item are detached before run
		// collection so they become deeper items of their own instead
		// of folding into the parent's text.
		var nested []*html.Node
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				n.RemoveChild(c)
				nested = append(nested, c)
			}
			c = next
		}
		if runs := collectRuns(n, layout.Flags{}, nil); len(runs) > 0 {
			ordered := false
			if len(state.lists) > 0 {
				ordered = state.lists[len(state.lists)-1]
			}
			state.page.AddElement(&model.TextBlock{
				Runs:    runs,
				BBox:    state.place(blockSpacing),
				Role:    model.RoleListItem,
				Depth:   max(len(state.lists)-1, 0),
				Ordered: ordered,
			})
		}
		for _, list := range nested {
			r.walk(list, state)
		}

	case "table":
		if table := r.buildTable(n, state); table != nil {
			state.page.AddElement(table)
		}

	case "img":
		if img := r.loadImage(n, state); img != nil {
			state.page.AddElement(img)
		}

	case "hr":
		state.page.AddElement(&model.Rule{BBox: state.place(blockSpacing / 2)})

	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			r.walk(c, state)
		}
	}
}

// buildTable converts a table element, honoring th bolding and explicit
// cell background colors.
func (r *Reader) buildTable(n *html.Node, state *parseState) *model.Table {
	table := &model.Table{}
	for _, tr := range findAll(n, "tr") {
		var cells []model.Cell
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
				continue
			}
			flags := layout.Flags{Bold: c.Data == "th"}
			cell := model.Cell{
				Runs:       collectRuns(c, flags, nil),
				Style:      layout.Classify("", 0, &flags),
				Background: cellBackground(c),
			}
			cells = append(cells, cell)
		}
		if len(cells) > 0 {
			table.Rows = append(table.Rows, cells)
		}
	}
	if len(table.Rows) == 0 {
		return nil
	}
	table.Normalize()
	table.BBox = state.place(float64(table.RowCount()) * blockSpacing)
	return table
}

// loadImage reads a local img src into the model. Remote or unreadable
// sources are skipped with a warning; a single bad image never aborts
// the document.
func (r *Reader) loadImage(n *html.Node, state *parseState) *model.Image {
	src := attr(n, "src")
	if src == "" || strings.Contains(src, "://") || strings.HasPrefix(src, "data:") {
		return nil
	}
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(state.baseDir, src)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("image skipped", "src", src, "error", err)
		return nil
	}
	return &model.Image{
		Data:   data,
		Format: formatFromExt(path),
		BBox:   state.place(100),
	}
}

// collectRuns gathers the inline text of a node into styled runs,
// accumulating b/strong, i/em, u, and s/strike along the way. Adjacent
// same-style text merges into one run.
func collectRuns(n *html.Node, flags layout.Flags, fg *model.RGB) []model.TextRun {
	var runs []model.TextRun
	appendRun := func(text string, f layout.Flags, color *model.RGB) {
		style := layout.Classify("", 0, &f)
		if color != nil {
			c := *color
			style.Foreground = &c
		}
		if n := len(runs); n > 0 && runs[n-1].Style.Equal(style) {
			runs[n-1].Text += text
			return
		}
		runs = append(runs, model.TextRun{Text: text, Style: style})
	}

	var visit func(*html.Node, layout.Flags, *model.RGB)
	visit = func(n *html.Node, f layout.Flags, color *model.RGB) {
		switch n.Type {
		case html.TextNode:
			text := collapseSpace(n.Data)
			if strings.TrimSpace(text) != "" {
				appendRun(text, f, color)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "b", "strong":
				f.Bold = true
			case "i", "em":
				f.Italic = true
			case "u":
				f.Underline = true
			case "s", "strike", "del":
				f.Strikethrough = true
			case "br":
				appendRun(" ", f, color)
				return
			case "script", "style":
				return
			}
			if m := fgColorPattern.FindStringSubmatch(attr(n, "style")); m != nil {
				if c, ok := model.ParseHex(m[1]); ok {
					color = &c
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, f, color)
		}
	}
	visit(n, flags, fg)

	// Trim the outermost whitespace without disturbing inner runs.
	if len(runs) > 0 {
		runs[0].Text = strings.TrimLeft(runs[0].Text, " ")
		last := len(runs) - 1
		runs[last].Text = strings.TrimRight(runs[last].Text, " ")
		if runs[last].Text == "" {
			runs = runs[:last]
		}
	}
	return runs
}

// cellBackground reads an explicit cell fill from the bgcolor attribute
// or an inline background-color style.
func cellBackground(n *html.Node) *model.RGB {
	if v := attr(n, "bgcolor"); v != "" {
		if c, ok := model.ParseHex(v); ok {
			return &c
		}
	}
	if m := bgColorPattern.FindStringSubmatch(attr(n, "style")); m != nil {
		if c, ok := model.ParseHex(m[1]); ok {
			return &c
		}
	}
	return nil
}

func findTitle(n *html.Node) string {
	if t := findElement(n, "title"); t != nil {
		return strings.TrimSpace(textContent(t))
	}
	return ""
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, name string) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == name {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return out
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// collapseSpace folds runs of whitespace to single spaces, keeping one
// boundary space so words do not fuse across inline tags.
func collapseSpace(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}
	if strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\n") || strings.HasPrefix(s, "\t") {
		collapsed = " " + collapsed
	}
	if strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\t") {
		collapsed += " "
	}
	return collapsed
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func formatFromExt(path string) model.ImageFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return model.ImageFormatPNG
	case ".jpg", ".jpeg":
		return model.ImageFormatJPEG
	case ".gif":
		return model.ImageFormatGIF
	case ".tif", ".tiff":
		return model.ImageFormatTIFF
	default:
		return model.ImageFormatUnknown
	}
}
