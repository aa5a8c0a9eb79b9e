package pdfdoc

import (
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/docshift/layout"
	"github.com/tsawler/docshift/model"
)

func TestParseImageName(t *testing.T) {
	tests := []struct {
		name     string
		wantPage int
		wantFmt  model.ImageFormat
		wantOK   bool
	}{
		{"report_1_Im0.png", 1, model.ImageFormatPNG, true},
		{"report_12_Im3.jpg", 12, model.ImageFormatJPEG, true},
		{"scan_2_X1.tiff", 2, model.ImageFormatTIFF, true},
		{"Report_3_Im0.JPEG", 3, model.ImageFormatJPEG, true},
		{"notes.txt", 0, model.ImageFormatUnknown, false},
		{"noformat_x.png", 0, model.ImageFormatUnknown, false},
	}

	for _, tt := range tests {
		page, format, ok := parseImageName(tt.name)
		if ok != tt.wantOK || page != tt.wantPage || format != tt.wantFmt {
			t.Errorf("parseImageName(%q) = %d, %v, %v; want %d, %v, %v",
				tt.name, page, format, ok, tt.wantPage, tt.wantFmt, tt.wantOK)
		}
	}
}

func TestMergeable(t *testing.T) {
	prev := layout.Span{
		Text:     "Hel",
		BBox:     model.BBox{X0: 72, Y0: 100, X1: 90, Y1: 112},
		FontName: "Helvetica",
		FontSize: 12,
	}

	tests := []struct {
		name string
		text pdf.Text
		bbox model.BBox
		want bool
	}{
		{
			"contiguous glyph",
			pdf.Text{S: "l", Font: "Helvetica", FontSize: 12},
			model.BBox{X0: 90.5, Y0: 100, X1: 96, Y1: 112},
			true,
		},
		{
			"word gap",
			pdf.Text{S: "w", Font: "Helvetica", FontSize: 12},
			model.BBox{X0: 96, Y0: 100, X1: 102, Y1: 112},
			false,
		},
		{
			"font change",
			pdf.Text{S: "l", Font: "Helvetica-Bold", FontSize: 12},
			model.BBox{X0: 90.5, Y0: 100, X1: 96, Y1: 112},
			false,
		},
		{
			"different line",
			pdf.Text{S: "l", Font: "Helvetica", FontSize: 12},
			model.BBox{X0: 90.5, Y0: 120, X1: 96, Y1: 132},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeable(prev, tt.text, tt.bbox); got != tt.want {
				t.Errorf("mergeable() = %v, want %v", got, tt.want)
			}
		})
	}
}
