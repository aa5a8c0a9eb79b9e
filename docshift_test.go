package docshift

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/tsawler/docshift/model"
)

func TestConversionsSorted(t *testing.T) {
	tokens := Conversions()
	if !slices.IsSorted(tokens) {
		t.Errorf("Conversions() not sorted: %v", tokens)
	}
	for _, want := range []string{
		"pdf-to-word", "word-to-pdf",
		"pdf-to-excel", "excel-to-pdf",
		"html-to-pdf", "ppt-to-pdf",
		"pdf-to-html", "pdf-to-ppt",
		"pdf-to-png", "pdf-to-jpeg", "pdf-to-jpg",
		"pdf-to-tiff", "pdf-to-tif", "pdf-to-images",
	} {
		if !slices.Contains(tokens, want) {
			t.Errorf("Conversions() missing %q", want)
		}
	}
}

func TestConvertUnsupportedToken(t *testing.T) {
	conv := New()
	defer conv.Close()

	_, err := conv.Convert(context.Background(), "pdf-to-epub", "in.pdf", "out.epub")
	if !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("err = %v, want ErrUnsupportedConversion", err)
	}
}

func TestConvertMissingInput(t *testing.T) {
	conv := New()
	defer conv.Close()

	missing := filepath.Join(t.TempDir(), "nope.pdf")
	_, err := conv.Convert(context.Background(), "pdf-to-word", missing, "out.docx")
	if !errors.Is(err, ErrInputNotFound) {
		t.Errorf("err = %v, want ErrInputNotFound", err)
	}
}

func TestConvertTokenCaseInsensitive(t *testing.T) {
	conv := New()
	defer conv.Close()

	// An uppercase token must resolve; the missing input proves the
	// lookup succeeded before the handler ran.
	missing := filepath.Join(t.TempDir(), "nope.pdf")
	_, err := conv.Convert(context.Background(), "  PDF-To-Word ", missing, "out.docx")
	if errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("uppercase token rejected: %v", err)
	}
	if !errors.Is(err, ErrInputNotFound) {
		t.Errorf("err = %v, want ErrInputNotFound", err)
	}
}

func TestConvertWarnsOnFormatMismatch(t *testing.T) {
	dir := t.TempDir()
	// A real PDF handed to a conversion that expects a workbook.
	in := filepath.Join(dir, "wrong.xlsx")
	if err := os.WriteFile(in, []byte("%PDF-1.4\n%%EOF"), 0o644); err != nil {
		t.Fatal(err)
	}

	conv := New()
	defer conv.Close()

	warnings, err := conv.Convert(context.Background(), "excel-to-pdf", in, filepath.Join(dir, "out.pdf"))
	if len(warnings) == 0 {
		t.Error("expected a format mismatch warning")
	}
	// The conversion itself still fails because the content is not a
	// workbook.
	if err == nil {
		t.Error("expected extraction to fail on non-workbook input")
	}
	var be *BuildError
	if !errors.As(err, &be) || be.Stage != "extract" {
		t.Errorf("err = %v, want a BuildError in the extract stage", err)
	}
}

func TestBuildErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := extractErr(inner)
	if !errors.Is(err, inner) {
		t.Error("BuildError should unwrap to the inner error")
	}
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatal("errors.As failed")
	}
	if be.Stage != "extract" {
		t.Errorf("Stage = %q, want extract", be.Stage)
	}
	if got := be.Error(); got != "extract: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func sheetPage(cols int) *model.Page {
	row := make([]model.Cell, cols)
	for i := range row {
		row[i] = model.Cell{Runs: []model.TextRun{{Text: "x", Style: model.DefaultStyle()}}}
	}
	page := &model.Page{Width: 612, Height: 792}
	page.AddElement(&model.Table{Rows: [][]model.Cell{row}})
	return page
}

func TestSpreadsheetSetupFirstSheetGoverns(t *testing.T) {
	wideFirst := model.NewDocument()
	wideFirst.AddPage(sheetPage(18))
	wideFirst.AddPage(sheetPage(2))
	want := model.PageSetup{Paper: model.PaperLegal, Landscape: true}
	if got := spreadsheetSetup(wideFirst); got != want {
		t.Errorf("wide first sheet: setup = %+v, want %+v", got, want)
	}

	// A wide later sheet does not change the shape.
	narrowFirst := model.NewDocument()
	narrowFirst.AddPage(sheetPage(2))
	narrowFirst.AddPage(sheetPage(18))
	want = model.PageSetup{Paper: model.PaperLetter}
	if got := spreadsheetSetup(narrowFirst); got != want {
		t.Errorf("narrow first sheet: setup = %+v, want %+v", got, want)
	}

	if got := spreadsheetSetup(model.NewDocument()); got != want {
		t.Errorf("empty document: setup = %+v, want %+v", got, want)
	}
}

func TestNewWithOptionsDefaults(t *testing.T) {
	conv := NewWithOptions(Options{})
	if conv.opts.DPI != 150 || conv.opts.Quality != 90 {
		t.Errorf("defaults not applied: %+v", conv.opts)
	}
	if conv.opts.Timeout != 2*time.Minute {
		t.Errorf("timeout = %v, want 2m", conv.opts.Timeout)
	}
	if conv.opts.Logger == nil {
		t.Error("logger should default")
	}
}
