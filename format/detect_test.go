package format

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{DOCX, "DOCX"},
		{XLSX, "XLSX"},
		{PPTX, "PPTX"},
		{HTML, "HTML"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetectByExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"document.pdf", PDF},
		{"document.PDF", PDF},
		{"document.docx", DOCX},
		{"document.xlsx", XLSX},
		{"document.pptx", PPTX},
		{"document.html", HTML},
		{"document.htm", HTML},
		{"document.txt", Unknown},
		{"document", Unknown},
		{"", Unknown},
		{"/path/to/file.pdf", PDF},
	}

	for _, tt := range tests {
		if got := DetectByExtension(tt.filename); got != tt.want {
			t.Errorf("DetectByExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf magic", []byte("%PDF-1.4\n%%EOF"), PDF},
		{"doctype html", []byte("<!DOCTYPE html>\n<html>"), HTML},
		{"bare html tag", []byte("<html><head>"), HTML},
		{"whitespace before doctype", []byte("  \n  <!DOCTYPE HTML PUBLIC"), HTML},
		{"xhtml declaration", []byte("<?xml version=\"1.0\"?>\n<html>"), HTML},
		{"plain text", []byte("Hello, World! This is plain text."), Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(tt.data)
			got, err := DetectFromReader(r, int64(len(tt.data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_ZIPVariants(t *testing.T) {
	tests := []struct {
		name   string
		marker string
		want   Format
	}{
		{"word archive", "word/document.xml", DOCX},
		{"excel archive", "xl/workbook.xml", XLSX},
		{"powerpoint archive", "ppt/presentation.xml", PPTX},
		{"unrelated archive", "data/readme.txt", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			w, err := zw.Create(tt.marker)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := w.Write([]byte("<xml/>")); err != nil {
				t.Fatal(err)
			}
			if err := zw.Close(); err != nil {
				t.Fatal(err)
			}

			got, err := DetectFromReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.bin")
	if err := os.WriteFile(path, []byte("%PDF-1.7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := DetectFile(path)
	if err != nil {
		t.Fatalf("DetectFile() error = %v", err)
	}
	if got != PDF {
		t.Errorf("DetectFile() = %v, want PDF", got)
	}

	if _, err := DetectFile(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
