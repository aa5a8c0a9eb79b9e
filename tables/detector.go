package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/docshift/layout"
	"github.com/tsawler/docshift/model"
)

// Config holds configuration for geometric table detection.
type Config struct {
	// MinRows is the minimum row count for a valid candidate (default: 2).
	MinRows int

	// MinCols is the minimum column count for a valid candidate
	// (default: 2).
	MinCols int

	// MinFillRatio is the minimum fraction of non-empty cells; candidates
	// below it are rejected as false positives (default: 0.30).
	MinFillRatio float64

	// AlignmentTolerance is the distance within which span edges cluster
	// into one boundary (default: 5 points).
	AlignmentTolerance float64

	// ClusterGap is the vertical gap that separates span clusters
	// (default: 50 points).
	ClusterGap float64

	// MinColumnSupport is the minimum number of distinct rows a column
	// must appear in; columns with less support are merged away so prose
	// with ragged spans does not produce phantom columns (default: 2).
	MinColumnSupport int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		MinFillRatio:       0.30,
		AlignmentTolerance: 5.0,
		ClusterGap:         50.0,
		MinColumnSupport:   2,
	}
}

// Detector finds tables in positioned text spans using geometric
// heuristics.
type Detector struct {
	config Config
}

// NewDetector creates a detector with default configuration.
func NewDetector() *Detector {
	return NewDetectorWithConfig(DefaultConfig())
}

// NewDetectorWithConfig creates a detector with custom configuration.
func NewDetectorWithConfig(config Config) *Detector {
	if config.MinRows < 2 {
		config.MinRows = 2
	}
	if config.MinCols < 1 {
		config.MinCols = 2
	}
	if config.MinFillRatio <= 0 {
		config.MinFillRatio = 0.30
	}
	if config.AlignmentTolerance <= 0 {
		config.AlignmentTolerance = 5.0
	}
	if config.ClusterGap <= 0 {
		config.ClusterGap = 50.0
	}
	if config.MinColumnSupport < 1 {
		config.MinColumnSupport = 2
	}
	return &Detector{config: config}
}

// Detect returns the accepted table candidates found in the spans.
// Spans belonging to rejected candidates are not consumed; the caller's
// layout reconstruction picks them up as ordinary text.
func (d *Detector) Detect(spans []layout.Span) []*model.Table {
	var tables []*model.Table
	for _, cluster := range d.clusterVertically(spans) {
		if t := d.buildCandidate(cluster); t != nil && d.Validate(t) {
			tables = append(tables, t)
		}
	}
	return tables
}

// Validate applies the candidate acceptance rules: at least MinRows rows
// and a fill ratio of MinFillRatio or better.
func (d *Detector) Validate(t *model.Table) bool {
	if t == nil || t.RowCount() < d.config.MinRows || t.ColCount() < d.config.MinCols {
		return false
	}
	return t.FillRatio() >= d.config.MinFillRatio
}

// clusterVertically groups spans separated by less than ClusterGap into
// candidate regions, top to bottom.
func (d *Detector) clusterVertically(spans []layout.Span) [][]layout.Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]layout.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
	})

	var clusters [][]layout.Span
	current := []layout.Span{sorted[0]}
	bottom := sorted[0].BBox.Y1

	for _, s := range sorted[1:] {
		if s.BBox.Y0-bottom > d.config.ClusterGap {
			clusters = append(clusters, current)
			current = nil
		}
		current = append(current, s)
		if s.BBox.Y1 > bottom {
			bottom = s.BBox.Y1
		}
	}
	clusters = append(clusters, current)
	return clusters
}

// buildCandidate assembles one cluster into a table candidate, or nil
// when the cluster has no grid shape.
func (d *Detector) buildCandidate(cluster []layout.Span) *model.Table {
	rows := d.clusterValues(collect(cluster, func(s layout.Span) float64 { return s.BBox.Y0 }))
	if len(rows) < d.config.MinRows {
		return nil
	}

	cols := d.columnCenters(cluster, rows)
	if len(cols) < d.config.MinCols {
		return nil
	}

	table := model.NewTable(len(rows), len(cols))
	bbox := cluster[0].BBox
	for _, s := range cluster {
		bbox = bbox.Union(s.BBox)
		ri := nearestIndex(rows, s.BBox.Y0)
		ci := nearestIndex(cols, s.BBox.X0)
		cell := &table.Rows[ri][ci]
		d.appendToCell(cell, s)
	}
	table.BBox = bbox
	return table
}

// columnCenters clusters span left edges into columns and drops columns
// that appear in fewer than MinColumnSupport distinct rows.
func (d *Detector) columnCenters(cluster []layout.Span, rows []float64) []float64 {
	centers := d.clusterValues(collect(cluster, func(s layout.Span) float64 { return s.BBox.X0 }))
	if len(centers) == 0 {
		return nil
	}

	support := make([]map[int]bool, len(centers))
	for i := range support {
		support[i] = make(map[int]bool)
	}
	for _, s := range cluster {
		ci := nearestIndex(centers, s.BBox.X0)
		ri := nearestIndex(rows, s.BBox.Y0)
		support[ci][ri] = true
	}

	kept := centers[:0]
	for i, c := range centers {
		if len(support[i]) >= d.config.MinColumnSupport {
			kept = append(kept, c)
		}
	}
	return kept
}

// appendToCell adds a span's text to a cell as a styled run, separated by
// a space from existing content.
func (d *Detector) appendToCell(cell *model.Cell, s layout.Span) {
	text := strings.TrimSpace(s.Text)
	if text == "" {
		return
	}
	style := layout.Classify(s.FontName, s.FontSize, nil)
	if s.Color != nil {
		c := *s.Color
		style.Foreground = &c
	}
	if len(cell.Runs) > 0 {
		text = " " + text
	} else {
		cell.Style = style
	}
	cell.Runs = append(cell.Runs, model.TextRun{Text: text, Style: style})
}

// clusterValues merges sorted values lying within the alignment tolerance
// into averaged cluster centers.
func (d *Detector) clusterValues(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)

	clustered := []float64{values[0]}
	for _, v := range values[1:] {
		last := len(clustered) - 1
		if v-clustered[last] > d.config.AlignmentTolerance {
			clustered = append(clustered, v)
		} else {
			clustered[last] = (clustered[last] + v) / 2
		}
	}
	return clustered
}

func collect(spans []layout.Span, f func(layout.Span) float64) []float64 {
	out := make([]float64, len(spans))
	for i, s := range spans {
		out[i] = f(s)
	}
	return out
}

// nearestIndex returns the index of the cluster center closest to v.
func nearestIndex(centers []float64, v float64) int {
	best := 0
	bestDist := math.Abs(centers[0] - v)
	for i, c := range centers[1:] {
		if d := math.Abs(c - v); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}
