package layout

import (
	"testing"

	"github.com/tsawler/docshift/model"
)

func TestClassifyInfersFromFontName(t *testing.T) {
	tests := []struct {
		name       string
		fontName   string
		size       float64
		wantBold   bool
		wantItalic bool
	}{
		{"plain face", "Helvetica", 12, false, false},
		{"bold face", "Helvetica-Bold", 12, true, false},
		{"bold mixed case", "Arial-BOLD", 12, true, false},
		{"italic face", "Times-Italic", 12, false, true},
		{"oblique face", "Courier-Oblique", 12, false, true},
		{"bold italic", "Helvetica-BoldOblique", 12, true, true},
		{"large regular face treated as bold", "Helvetica", 18, true, false},
		{"size at threshold stays regular", "Helvetica", 14, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.fontName, tt.size, nil)
			if got.Bold != tt.wantBold {
				t.Errorf("Bold = %v, want %v", got.Bold, tt.wantBold)
			}
			if got.Italic != tt.wantItalic {
				t.Errorf("Italic = %v, want %v", got.Italic, tt.wantItalic)
			}
		})
	}
}

func TestClassifyExplicitFlagsWin(t *testing.T) {
	// Explicit flags from a structured source override everything the
	// font name implies.
	got := Classify("Helvetica-Bold", 22, &Flags{Italic: true, Underline: true})
	if got.Bold {
		t.Error("explicit flags should suppress bold inference")
	}
	if !got.Italic || !got.Underline {
		t.Error("explicit italic/underline not applied")
	}
}

func TestClassifyIsPure(t *testing.T) {
	a := Classify("Times-BoldItalic", 16, nil)
	b := Classify("Times-BoldItalic", 16, nil)
	if !a.Equal(b) {
		t.Error("identical inputs must yield identical attributes")
	}
}

func TestClassifyDefaultsSize(t *testing.T) {
	got := Classify("Helvetica", 0, nil)
	if got.FontSizePt != model.DefaultStyle().FontSizePt {
		t.Errorf("FontSizePt = %v, want default", got.FontSizePt)
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		size float64
		want int
	}{
		{22, 1},
		{20.5, 1},
		{20, 2},
		{17, 2},
		{16, 3},
		{15, 3},
		{14, 0},
		{12, 0},
	}

	for _, tt := range tests {
		if got := HeadingLevel(tt.size); got != tt.want {
			t.Errorf("HeadingLevel(%v) = %d, want %d", tt.size, got, tt.want)
		}
	}
}
