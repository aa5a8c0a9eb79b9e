package emit

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/tsawler/docshift/model"
)

// pdfMarginInches is the uniform print margin.
const pdfMarginInches = 0.4

// PDFConfig holds configuration for the PDF emitter.
type PDFConfig struct {
	// Timeout bounds a single page load and print.
	Timeout time.Duration
	Logger  *slog.Logger
}

// DefaultPDFConfig returns a config with a 60 second print timeout.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		Timeout: 60 * time.Second,
		Logger:  slog.Default(),
	}
}

// PDFEmitter renders a document to PDF by emitting self-contained HTML
// and printing it with a headless Chromium over the DevTools protocol.
// The browser launches lazily on first use; Close releases it.
type PDFEmitter struct {
	cfg     PDFConfig
	html    *HTMLEmitter
	browser *rod.Browser
}

// NewPDFEmitter creates a PDF emitter with default settings.
func NewPDFEmitter() *PDFEmitter {
	return NewPDFEmitterWithConfig(DefaultPDFConfig())
}

// NewPDFEmitterWithConfig creates a PDF emitter with the given config.
func NewPDFEmitterWithConfig(cfg PDFConfig) *PDFEmitter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPDFConfig().Timeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &PDFEmitter{cfg: cfg, html: NewHTMLEmitter()}
}

// EmitFile renders the document and writes a PDF to outPath. The page
// shape comes from the document's Setup.
func (e *PDFEmitter) EmitFile(doc *model.Document, outPath string) error {
	tmpDir, err := os.MkdirTemp("", "docshift-pdf-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := e.html.EmitFile(doc, htmlPath); err != nil {
		return err
	}

	data, err := e.PrintHTML(htmlPath, doc.Setup)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PrintHTML prints an HTML file on disk to PDF bytes using the given
// page setup. It is also the backend for the direct HTML-to-PDF
// conversion path.
func (e *PDFEmitter) PrintHTML(htmlPath string, setup model.PageSetup) ([]byte, error) {
	if err := e.ensureBrowser(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("resolve html path: %w", err)
	}

	page, err := e.browser.Page(proto.TargetCreateTarget{URL: "file://" + absPath})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.Timeout(e.cfg.Timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for page load: %w", err)
	}

	paperW, paperH := setup.Paper.Dimensions()
	margin := pdfMarginInches
	reader, err := page.PDF(&proto.PagePrintToPDF{
		Landscape:       setup.Landscape,
		PrintBackground: true,
		PaperWidth:      floatPtr(paperW / 72),
		PaperHeight:     floatPtr(paperH / 72),
		MarginTop:       &margin,
		MarginBottom:    &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return data, nil
}

// ensureBrowser launches the headless browser once. ROD_BROWSER_BIN
// overrides the binary rod would otherwise download.
func (e *PDFEmitter) ensureBrowser() error {
	if e.browser != nil {
		return nil
	}

	l := launcher.New().Headless(true).NoSandbox(true)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to browser: %w", err)
	}

	e.cfg.Logger.Debug("headless browser ready", "control_url", controlURL)
	e.browser = browser
	return nil
}

// Close shuts down the headless browser if one was launched.
func (e *PDFEmitter) Close() error {
	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	e.browser = nil
	return err
}

func floatPtr(f float64) *float64 { return &f }
