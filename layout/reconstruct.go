package layout

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/docshift/model"
)

// Span is a positioned, styled fragment of text as extracted from a
// source container, before any semantic grouping.
type Span struct {
	Text     string
	BBox     model.BBox
	FontName string
	FontSize float64
	Color    *model.RGB
}

// bulletGlyphs are the leading characters that mark an unordered list
// item.
var bulletGlyphs = map[rune]bool{
	'•': true,
	'-': true,
	'*': true,
	'●': true,
	'○': true,
	'▪': true,
	'◆': true,
}

// orderedPrefix matches a numeric list prefix such as "3." at the start
// of a line.
var orderedPrefix = regexp.MustCompile(`^(\d+)\.\s*`)

// Config holds configuration for layout reconstruction.
type Config struct {
	// GapSpaceRatio is the horizontal gap, as a fraction of font size,
	// above which a space is inserted between adjacent spans on a line
	// (default: 0.3).
	GapSpaceRatio float64

	// Logger receives per-element diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		GapSpaceRatio: 0.3,
		Logger:        slog.Default(),
	}
}

// Reconstructor turns raw positioned primitives into an ordered,
// classified page.
type Reconstructor struct {
	config Config
}

// NewReconstructor creates a reconstructor with default configuration.
func NewReconstructor() *Reconstructor {
	return NewReconstructorWithConfig(DefaultConfig())
}

// NewReconstructorWithConfig creates a reconstructor with custom
// configuration.
func NewReconstructorWithConfig(config Config) *Reconstructor {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.GapSpaceRatio <= 0 {
		config.GapSpaceRatio = 0.3
	}
	return &Reconstructor{config: config}
}

// Reconstruct merges text spans, table candidates, and images into a
// single page ordered top to bottom:
//
//  1. Spans whose bounding box intersects any table are dropped; their
//     text already lives in the table's cells.
//  2. Remaining spans are grouped into lines by rounded top coordinate
//     and ordered left to right within each line.
//  3. Adjacent same-style spans in a line coalesce into one run.
//  4. Each line is classified as heading, list item, or body text from
//     its average font size and leading characters.
//  5. Text blocks, tables, and images are interleaved ascending by top
//     edge. At identical positions tables and images precede text.
//
// A table or image with an invalid bounding box is placed at the top of
// the page and logged rather than rejected; partial layout beats
// aborting the conversion.
func (r *Reconstructor) Reconstruct(spans []Span, tables []*model.Table, images []*model.Image) *model.Page {
	page := &model.Page{}

	for _, t := range tables {
		if !t.BBox.IsValid() {
			r.config.Logger.Warn("table has invalid bounding box, placing at top of page")
			t.BBox = model.BBox{}
		}
		t.Normalize()
		page.AddElement(t)
	}
	for _, img := range images {
		if !img.BBox.IsValid() {
			r.config.Logger.Warn("image has invalid bounding box, placing at top of page")
			img.BBox = model.BBox{}
		}
		page.AddElement(img)
	}

	free := r.suppressTableText(spans, tables)
	for _, line := range r.groupIntoLines(free) {
		if block := r.buildBlock(line); block != nil {
			page.AddElement(block)
		}
	}

	page.SortByPosition()
	return page
}

// suppressTableText drops spans that intersect any table's bounding box.
// Raw rectangle intersection with no tolerance margin; pages with
// misaligned table borders may leak stray duplicates, which matches the
// extraction libraries' behavior downstream consumers expect.
func (r *Reconstructor) suppressTableText(spans []Span, tables []*model.Table) []Span {
	if len(tables) == 0 {
		return spans
	}
	kept := make([]Span, 0, len(spans))
	for _, s := range spans {
		covered := false
		for _, t := range tables {
			if t.BBox.IsValid() && s.BBox.Intersects(t.BBox) {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, s)
		}
	}
	return kept
}

// groupIntoLines buckets spans by integer-rounded top coordinate and
// orders each bucket left to right.
func (r *Reconstructor) groupIntoLines(spans []Span) [][]Span {
	buckets := make(map[int][]Span)
	for _, s := range spans {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		key := int(math.Round(s.BBox.Y0))
		buckets[key] = append(buckets[key], s)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	lines := make([][]Span, 0, len(keys))
	for _, k := range keys {
		line := buckets[k]
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].BBox.X0 < line[j].BBox.X0
		})
		lines = append(lines, line)
	}
	return lines
}

// buildBlock assembles one line of spans into a classified text block.
// Returns nil for lines that are empty after assembly.
func (r *Reconstructor) buildBlock(line []Span) *model.TextBlock {
	if len(line) == 0 {
		return nil
	}

	runs := r.coalesceRuns(line)
	if len(runs) == 0 {
		return nil
	}

	bbox := line[0].BBox
	var sizeSum float64
	for _, s := range line {
		bbox = bbox.Union(s.BBox)
		sizeSum += s.FontSize
	}
	avgSize := sizeSum / float64(len(line))

	block := &model.TextBlock{
		Runs: runs,
		BBox: bbox,
		Role: model.RoleParagraph,
	}

	if level := HeadingLevel(avgSize); level > 0 {
		block.Role = model.RoleHeading
		block.Level = level
		return block
	}

	r.classifyListItem(block)
	return block
}

// coalesceRuns merges adjacent spans with identical derived style into
// single runs, inserting spaces across significant horizontal gaps.
func (r *Reconstructor) coalesceRuns(line []Span) []model.TextRun {
	var runs []model.TextRun
	for i, s := range line {
		style := Classify(s.FontName, s.FontSize, nil)
		if s.Color != nil {
			c := *s.Color
			style.Foreground = &c
		}

		text := s.Text
		if i > 0 {
			prev := line[i-1]
			gap := s.BBox.X0 - prev.BBox.X1
			threshold := s.FontSize * r.config.GapSpaceRatio
			if threshold <= 0 {
				threshold = 2
			}
			if gap > threshold {
				text = " " + text
			}
		}

		if n := len(runs); n > 0 && runs[n-1].Style.Equal(style) {
			runs[n-1].Text += text
			continue
		}
		runs = append(runs, model.TextRun{Text: text, Style: style})
	}

	// Drop blocks that are whitespace only.
	var total string
	for _, run := range runs {
		total += run.Text
	}
	if strings.TrimSpace(total) == "" {
		return nil
	}
	return runs
}

// classifyListItem rewrites a paragraph block as a list item when its
// text starts with a bullet glyph or a numeric prefix, stripping the
// marker from the first run.
func (r *Reconstructor) classifyListItem(block *model.TextBlock) {
	text := block.Text()
	trimmed := strings.TrimLeft(text, " \t")
	if trimmed == "" {
		return
	}

	first := []rune(trimmed)[0]
	if bulletGlyphs[first] {
		rest := strings.TrimLeft(string([]rune(trimmed)[1:]), " \t")
		// A bare dash with no following text is a dash, not a bullet.
		if rest == "" {
			return
		}
		block.Role = model.RoleListItem
		block.Ordered = false
		stripBlockPrefix(block, len(text)-len(rest))
		return
	}

	if m := orderedPrefix.FindString(trimmed); m != "" {
		rest := trimmed[len(m):]
		if rest == "" {
			return
		}
		block.Role = model.RoleListItem
		block.Ordered = true
		stripBlockPrefix(block, len(text)-len(rest))
	}
}

// stripBlockPrefix removes the first n bytes of a block's text across its
// runs, dropping runs that become empty.
func stripBlockPrefix(block *model.TextBlock, n int) {
	runs := block.Runs
	for n > 0 && len(runs) > 0 {
		if len(runs[0].Text) <= n {
			n -= len(runs[0].Text)
			runs = runs[1:]
			continue
		}
		runs[0].Text = runs[0].Text[n:]
		n = 0
	}
	block.Runs = runs
}
