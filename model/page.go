package model

import "sort"

// Page holds one converted page, slide, or sheet as an ordered element
// sequence. Elements must be sorted ascending by the top edge of their
// bounding box before emission; SortByPosition establishes that order.
type Page struct {
	Number int // 1-indexed
	Name   string
	Width  float64 // points
	Height float64 // points

	Elements []Element
}

// AddElement appends an element to the page.
func (p *Page) AddElement(e Element) {
	p.Elements = append(p.Elements, e)
}

// SortByPosition orders elements ascending by BoundingBox().Y0. The sort
// is stable, so elements at identical Y keep their extraction order.
func (p *Page) SortByPosition() {
	sort.SliceStable(p.Elements, func(i, j int) bool {
		return p.Elements[i].BoundingBox().Y0 < p.Elements[j].BoundingBox().Y0
	})
}

// Tables returns the page's table elements in sequence order.
func (p *Page) Tables() []*Table {
	var tables []*Table
	for _, e := range p.Elements {
		if t, ok := e.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// MaxTableColumns returns the widest table's column count on the page, 0
// when the page has no tables.
func (p *Page) MaxTableColumns() int {
	var cols int
	for _, t := range p.Tables() {
		if c := t.ColCount(); c > cols {
			cols = c
		}
	}
	return cols
}

// Text returns all text content on the page, blocks separated by newlines.
func (p *Page) Text() string {
	var out string
	for _, e := range p.Elements {
		if tb, ok := e.(*TextBlock); ok {
			out += tb.Text() + "\n"
		}
	}
	return out
}
