package pdfdoc

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/tsawler/docshift/layout"
	"github.com/tsawler/docshift/model"
	"github.com/tsawler/docshift/tables"
)

// Config holds configuration for PDF extraction.
type Config struct {
	// ExtractImages controls whether embedded images are pulled into the
	// document model (default: true).
	ExtractImages bool

	// Logger receives per-element diagnostics. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		ExtractImages: true,
		Logger:        slog.Default(),
	}
}

// Extractor reads a PDF into the document model.
type Extractor struct {
	config   Config
	detector *tables.Detector
	recon    *layout.Reconstructor
}

// NewExtractor creates an extractor with default configuration.
func NewExtractor() *Extractor {
	return NewExtractorWithConfig(DefaultConfig())
}

// NewExtractorWithConfig creates an extractor with custom configuration.
func NewExtractorWithConfig(config Config) *Extractor {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Extractor{
		config:   config,
		detector: tables.NewDetector(),
		recon: layout.NewReconstructorWithConfig(layout.Config{
			Logger: config.Logger,
		}),
	}
}

// Extract reads the PDF at path and reconstructs its pages.
func (e *Extractor) Extract(path string) (*model.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	images := map[int][]*model.Image{}
	if e.config.ExtractImages {
		images = e.extractImages(path)
	}

	doc := model.NewDocument()
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}

		width, height := pageDimensions(p)
		spans := e.pageSpans(p, height)
		detected := e.detector.Detect(spans)

		page := e.recon.Reconstruct(spans, detected, images[i])
		page.Width = width
		page.Height = height
		doc.AddPage(page)
	}

	if doc.PageCount() == 0 {
		return nil, fmt.Errorf("no readable pages in %s", path)
	}
	return doc, nil
}

// pageSpans extracts the page's text layer as top-origin spans, merging
// adjacent same-line fragments into words.
func (e *Extractor) pageSpans(p pdf.Page, pageHeight float64) []layout.Span {
	content := p.Content()
	if len(content.Text) == 0 {
		return nil
	}

	texts := make([]pdf.Text, len(content.Text))
	copy(texts, content.Text)
	sort.SliceStable(texts, func(i, j int) bool {
		if texts[i].Y != texts[j].Y {
			return texts[i].Y > texts[j].Y // bottom-origin: larger Y is higher
		}
		return texts[i].X < texts[j].X
	})

	var spans []layout.Span
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		bbox := model.NewBBox(
			t.X,
			pageHeight-t.Y-t.FontSize,
			t.X+t.W,
			pageHeight-t.Y,
		)

		if n := len(spans); n > 0 && mergeable(spans[n-1], t, bbox) {
			spans[n-1].Text += t.S
			spans[n-1].BBox = spans[n-1].BBox.Union(bbox)
			continue
		}
		spans = append(spans, layout.Span{
			Text:     t.S,
			BBox:     bbox,
			FontName: t.Font,
			FontSize: t.FontSize,
		})
	}
	return spans
}

// mergeable reports whether a raw text item continues the previous span:
// same font and size, same line, and horizontally contiguous. The text
// layer arrives glyph by glyph; merging rebuilds words so the layout
// stage sees word-level spans.
func mergeable(prev layout.Span, t pdf.Text, bbox model.BBox) bool {
	if prev.FontName != t.Font || prev.FontSize != t.FontSize {
		return false
	}
	if bbox.Y1 != prev.BBox.Y1 {
		return false
	}
	gap := bbox.X0 - prev.BBox.X1
	return gap > -1 && gap <= t.FontSize*0.2
}

// pageDimensions reads the page MediaBox, defaulting to letter size when
// it is missing or malformed.
func pageDimensions(p pdf.Page) (w, h float64) {
	mb := p.V.Key("MediaBox")
	if mb.Len() == 4 {
		w = mb.Index(2).Float64() - mb.Index(0).Float64()
		h = mb.Index(3).Float64() - mb.Index(1).Float64()
	}
	if w <= 0 || h <= 0 {
		return 612, 792
	}
	return w, h
}

// imageFilePattern matches pdfcpu's extracted image naming,
// <base>_<page>_<id>.<ext>, capturing the page number and extension.
var imageFilePattern = regexp.MustCompile(`_(\d+)_[^_]*\.(png|jpe?g|tiff?)$`)

// extractImages pulls embedded images into a temporary directory, reads
// them into memory keyed by page number, and removes the directory.
// Failures are logged and skipped; images never abort a conversion.
func (e *Extractor) extractImages(path string) map[int][]*model.Image {
	images := make(map[int][]*model.Image)

	tmpDir, err := os.MkdirTemp("", "docshift-img-*")
	if err != nil {
		e.config.Logger.Warn("image temp dir", "error", err)
		return images
	}
	defer os.RemoveAll(tmpDir)

	if err := api.ExtractImagesFile(path, tmpDir, nil, nil); err != nil {
		e.config.Logger.Warn("image extraction skipped", "error", err)
		return images
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		e.config.Logger.Warn("reading extracted images", "error", err)
		return images
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pageNr, format, ok := parseImageName(entry.Name())
		if !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, entry.Name()))
		if err != nil {
			e.config.Logger.Warn("reading extracted image", "file", entry.Name(), "error", err)
			continue
		}
		// Extracted images carry no placement; a zero box puts them at
		// the top of their page.
		images[pageNr] = append(images[pageNr], &model.Image{
			Data:   data,
			Format: format,
		})
	}
	return images
}

// parseImageName recovers the page number and format from an extracted
// image filename.
func parseImageName(name string) (pageNr int, format model.ImageFormat, ok bool) {
	m := imageFilePattern.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return 0, model.ImageFormatUnknown, false
	}
	pageNr, err := strconv.Atoi(m[1])
	if err != nil || pageNr < 1 {
		return 0, model.ImageFormatUnknown, false
	}
	switch m[2] {
	case "png":
		format = model.ImageFormatPNG
	case "jpg", "jpeg":
		format = model.ImageFormatJPEG
	case "tif", "tiff":
		format = model.ImageFormatTIFF
	default:
		format = model.ImageFormatUnknown
	}
	return pageNr, format, true
}
