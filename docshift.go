// Package docshift converts documents between office and web formats by
// extracting each source into a shared document model and re-emitting it
// in the target format.
//
// Basic usage:
//
//	conv := docshift.New()
//	defer conv.Close()
//	warnings, err := conv.Convert(ctx, "pdf-to-word", "report.pdf", "report.docx")
//
// Conversions are named by case-insensitive tokens such as "pdf-to-word"
// or "excel-to-pdf"; Conversions lists all of them.
package docshift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/tsawler/docshift/docx"
	"github.com/tsawler/docshift/emit"
	"github.com/tsawler/docshift/format"
	"github.com/tsawler/docshift/htmldoc"
	"github.com/tsawler/docshift/model"
	"github.com/tsawler/docshift/pdfdoc"
	"github.com/tsawler/docshift/pptx"
	"github.com/tsawler/docshift/raster"
	"github.com/tsawler/docshift/xlsx"
)

// Options holds configuration for a Converter.
type Options struct {
	// DPI is the render resolution for image targets.
	DPI int
	// Quality is the JPEG quality for image targets.
	Quality int
	// Timeout bounds external renderers (Ghostscript, the headless
	// browser).
	Timeout time.Duration
	// ExtractImages controls whether embedded PDF images are carried
	// into the output.
	ExtractImages bool
	Logger        *slog.Logger
}

// DefaultOptions returns options matching the defaults of the underlying
// renderers: 150 DPI, JPEG quality 90, a two minute timeout, and image
// extraction enabled.
func DefaultOptions() Options {
	return Options{
		DPI:           150,
		Quality:       90,
		Timeout:       2 * time.Minute,
		ExtractImages: true,
		Logger:        slog.Default(),
	}
}

// Converter runs document conversions. It is safe to reuse for multiple
// conversions; Close releases the headless browser if one was launched.
type Converter struct {
	opts Options
	pdf  *emit.PDFEmitter
}

// New creates a converter with default options.
func New() *Converter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a converter with the given options. Zero
// numeric fields and a nil logger fall back to defaults.
func NewWithOptions(opts Options) *Converter {
	def := DefaultOptions()
	if opts.DPI <= 0 {
		opts.DPI = def.DPI
	}
	if opts.Quality <= 0 {
		opts.Quality = def.Quality
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	return &Converter{opts: opts}
}

// conversion ties a token to its expected source format and handler.
type conversion struct {
	source format.Format
	run    func(c *Converter, ctx context.Context, in, out string) error
}

var conversions = map[string]conversion{
	"pdf-to-word":   {format.PDF, (*Converter).pdfToWord},
	"pdf-to-excel":  {format.PDF, (*Converter).pdfToExcel},
	"pdf-to-html":   {format.PDF, (*Converter).pdfToHTML},
	"pdf-to-ppt":    {format.PDF, (*Converter).pdfToPPT},
	"word-to-pdf":   {format.DOCX, (*Converter).wordToPDF},
	"excel-to-pdf":  {format.XLSX, (*Converter).excelToPDF},
	"ppt-to-pdf":    {format.PPTX, (*Converter).pptToPDF},
	"html-to-pdf":   {format.HTML, (*Converter).htmlToPDF},
	"pdf-to-png":    {format.PDF, rasterHandler(raster.FormatPNG)},
	"pdf-to-jpeg":   {format.PDF, rasterHandler(raster.FormatJPEG)},
	"pdf-to-jpg":    {format.PDF, rasterHandler(raster.FormatJPEG)},
	"pdf-to-tiff":   {format.PDF, rasterHandler(raster.FormatTIFF)},
	"pdf-to-tif":    {format.PDF, rasterHandler(raster.FormatTIFF)},
	"pdf-to-images": {format.PDF, rasterHandler(raster.FormatPNG)},
}

// Conversions returns the supported conversion tokens, sorted.
func Conversions() []string {
	tokens := make([]string, 0, len(conversions))
	for token := range conversions {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Convert runs the named conversion from in to out. The token is matched
// case-insensitively. Returned warnings are advisory; the conversion
// succeeded whenever err is nil.
func (c *Converter) Convert(ctx context.Context, token, in, out string) ([]string, error) {
	conv, ok := conversions[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedConversion, token, strings.Join(Conversions(), ", "))
	}

	if _, err := os.Stat(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, in)
	}

	var warnings []string
	if detected, err := format.DetectFile(in); err == nil &&
		detected != format.Unknown && detected != conv.source {
		w := fmt.Sprintf("input %s looks like %s, but the conversion expects %s",
			in, detected, conv.source)
		warnings = append(warnings, w)
		c.opts.Logger.Warn("source format mismatch",
			"input", in, "detected", detected.String(), "expected", conv.source.String())
	}

	if err := conv.run(c, ctx, in, out); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// Close releases resources held across conversions, currently the
// headless browser used for PDF output.
func (c *Converter) Close() error {
	if c.pdf == nil {
		return nil
	}
	err := c.pdf.Close()
	c.pdf = nil
	return err
}

func (c *Converter) extractPDF(path string) (*model.Document, error) {
	extractor := pdfdoc.NewExtractorWithConfig(pdfdoc.Config{
		ExtractImages: c.opts.ExtractImages,
		Logger:        c.opts.Logger,
	})
	return extractor.Extract(path)
}

func (c *Converter) pdfEmitter() *emit.PDFEmitter {
	if c.pdf == nil {
		c.pdf = emit.NewPDFEmitterWithConfig(emit.PDFConfig{
			Timeout: c.opts.Timeout,
			Logger:  c.opts.Logger,
		})
	}
	return c.pdf
}

func (c *Converter) pdfToWord(ctx context.Context, in, out string) error {
	return c.pdfTo(in, out, func(doc *model.Document) error {
		doc.Setup = emit.SelectPageSetup(doc.MaxTableColumns(), false)
		return emit.NewDOCXEmitter().EmitFile(doc, out)
	})
}

func (c *Converter) pdfToExcel(ctx context.Context, in, out string) error {
	return c.pdfTo(in, out, func(doc *model.Document) error {
		return emit.NewXLSXEmitter().EmitFile(doc, out)
	})
}

func (c *Converter) pdfToHTML(ctx context.Context, in, out string) error {
	return c.pdfTo(in, out, func(doc *model.Document) error {
		return emit.NewHTMLEmitter().EmitFile(doc, out)
	})
}

func (c *Converter) pdfToPPT(ctx context.Context, in, out string) error {
	return c.pdfTo(in, out, func(doc *model.Document) error {
		return emit.NewPPTXEmitter().EmitFile(doc, out)
	})
}

// pdfTo extracts the PDF and hands the document to an emitting closure.
func (c *Converter) pdfTo(in, _ string, emitFn func(*model.Document) error) error {
	doc, err := c.extractPDF(in)
	if err != nil {
		return extractErr(err)
	}
	if err := emitFn(doc); err != nil {
		return emitErr(err)
	}
	return nil
}

func (c *Converter) wordToPDF(ctx context.Context, in, out string) error {
	doc, err := docx.NewReader().Read(in)
	if err != nil {
		return extractErr(err)
	}
	doc.Setup = emit.SelectPageSetup(doc.MaxTableColumns(), false)
	if err := c.pdfEmitter().EmitFile(doc, out); err != nil {
		return emitErr(err)
	}
	return nil
}

func (c *Converter) excelToPDF(ctx context.Context, in, out string) error {
	doc, err := xlsx.NewReader().Read(in)
	if err != nil {
		return extractErr(err)
	}
	doc.Setup = spreadsheetSetup(doc)
	if err := c.pdfEmitter().EmitFile(doc, out); err != nil {
		return emitErr(err)
	}
	return nil
}

// spreadsheetSetup shapes the printed workbook from the first sheet's
// column count. One setup covers the whole print job, so the first
// sheet governs even when later sheets are wider.
func spreadsheetSetup(doc *model.Document) model.PageSetup {
	cols := 0
	if len(doc.Pages) > 0 {
		cols = doc.Pages[0].MaxTableColumns()
	}
	return emit.SelectPageSetup(cols, true)
}

func (c *Converter) pptToPDF(ctx context.Context, in, out string) error {
	doc, err := pptx.NewReader().Read(in)
	if err != nil {
		return extractErr(err)
	}
	// Decks are wider than tall, so print them landscape.
	doc.Setup = model.PageSetup{Paper: model.PaperLetter}
	if len(doc.Pages) > 0 && doc.Pages[0].Width > doc.Pages[0].Height {
		doc.Setup.Landscape = true
	}
	if err := c.pdfEmitter().EmitFile(doc, out); err != nil {
		return emitErr(err)
	}
	return nil
}

// htmlToPDF prints the source HTML directly rather than round-tripping
// it through the document model, so CSS the model cannot represent
// survives. The parsed path (htmldoc) remains available for model-based
// targets.
func (c *Converter) htmlToPDF(ctx context.Context, in, out string) error {
	data, err := c.pdfEmitter().PrintHTML(in, model.PageSetup{Paper: model.PaperLetter})
	if err != nil {
		return emitErr(err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return emitErr(err)
	}
	return nil
}

// ReadHTML parses an HTML file into the document model. It exists for
// callers that want model-level access to web content; the html-to-pdf
// conversion prints the source directly instead.
func ReadHTML(path string) (*model.Document, error) {
	return htmldoc.NewReader().Read(path)
}

func rasterHandler(f raster.Format) func(c *Converter, ctx context.Context, in, out string) error {
	return func(c *Converter, ctx context.Context, in, out string) error {
		r := raster.NewWithConfig(raster.Config{
			DPI:     c.opts.DPI,
			Quality: c.opts.Quality,
			Timeout: c.opts.Timeout,
			Logger:  c.opts.Logger,
		})
		files, err := r.Rasterize(ctx, in, out, f)
		if err != nil {
			if errors.Is(err, raster.ErrGhostscriptNotFound) {
				return rasterErr(fmt.Errorf("%w: ghostscript", ErrExternalToolMissing))
			}
			return rasterErr(err)
		}
		c.opts.Logger.Info("rasterized pages", "input", in, "pages", len(files))
		return nil
	}
}
