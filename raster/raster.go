// Package raster renders PDF pages to raster images by shelling out to
// Ghostscript.
package raster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrGhostscriptNotFound is returned when no Ghostscript binary is on
// the PATH.
var ErrGhostscriptNotFound = errors.New("ghostscript binary not found")

// ghostscriptNames are the binary names probed in order. The win64 and
// win32 console names cover Windows installs.
var ghostscriptNames = []string{"gs", "gswin64c", "gswin32c"}

// lookPath is the exec.LookPath implementation used for binary
// discovery.
var lookPath = exec.LookPath

// Format selects the output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatTIFF Format = "tiff"
)

// ParseFormat maps a file extension or format token to a Format.
func ParseFormat(token string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(token, ".")) {
	case "png":
		return FormatPNG, true
	case "jpg", "jpeg":
		return FormatJPEG, true
	case "tif", "tiff":
		return FormatTIFF, true
	default:
		return "", false
	}
}

// device returns the Ghostscript output device for the format.
func (f Format) device() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatTIFF:
		return "tiff24nc"
	default:
		return "png16m"
	}
}

// Ext returns the canonical file extension, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Config holds configuration for the rasterizer.
type Config struct {
	// DPI is the render resolution.
	DPI int
	// Quality is the JPEG quality, ignored for other formats.
	Quality int
	// Timeout bounds one Ghostscript invocation; the process is killed
	// when it expires.
	Timeout time.Duration
	Logger  *slog.Logger
}

// DefaultConfig returns a config rendering at 150 DPI with a two minute
// timeout.
func DefaultConfig() Config {
	return Config{
		DPI:     150,
		Quality: 90,
		Timeout: 2 * time.Minute,
		Logger:  slog.Default(),
	}
}

// Rasterizer renders PDFs to page images.
type Rasterizer struct {
	cfg Config
}

// New creates a rasterizer with default settings.
func New() *Rasterizer {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a rasterizer with the given config. Zero config
// fields fall back to defaults.
func NewWithConfig(cfg Config) *Rasterizer {
	def := DefaultConfig()
	if cfg.DPI <= 0 {
		cfg.DPI = def.DPI
	}
	if cfg.Quality <= 0 {
		cfg.Quality = def.Quality
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	return &Rasterizer{cfg: cfg}
}

// Rasterize renders every page of pdfPath to images in the given format.
// outPath names the desired output file; multi-page documents produce
// numbered siblings (out_001.png, out_002.png, ...) while a single page
// is renamed to outPath itself. The written paths are returned in page
// order.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath, outPath string, format Format) ([]string, error) {
	bin, err := findGhostscript()
	if err != nil {
		return nil, err
	}

	pattern := outputPattern(outPath, format)
	args := r.buildArgs(format, pattern, pdfPath)

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("ghostscript timed out after %s", r.cfg.Timeout)
		}
		return nil, fmt.Errorf("ghostscript failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	r.cfg.Logger.Debug("rasterized pdf",
		"input", pdfPath, "device", format.device(), "dpi", r.cfg.DPI,
		"duration", time.Since(start))

	return collectOutputs(pattern, outPath)
}

// buildArgs assembles the Ghostscript command line.
func (r *Rasterizer) buildArgs(format Format, pattern, pdfPath string) []string {
	args := []string{
		"-dNOPAUSE", "-dBATCH", "-dSAFER", "-dQUIET",
		"-sDEVICE=" + format.device(),
		fmt.Sprintf("-r%d", r.cfg.DPI),
		"-dTextAlphaBits=4",
		"-dGraphicsAlphaBits=4",
	}
	if format == FormatJPEG {
		args = append(args, fmt.Sprintf("-dJPEGQ=%d", r.cfg.Quality))
	}
	return append(args, "-sOutputFile="+pattern, pdfPath)
}

// outputPattern derives the numbered output pattern next to outPath,
// e.g. "scan.png" becomes "scan_%03d.png".
func outputPattern(outPath string, format Format) string {
	base := strings.TrimSuffix(outPath, filepath.Ext(outPath))
	return fmt.Sprintf("%s_%%03d.%s", base, format.Ext())
}

// collectOutputs lists the files the pattern produced, in page order. A
// single page is renamed to the requested output name.
func collectOutputs(pattern, outPath string) ([]string, error) {
	glob := strings.Replace(pattern, "%03d", "*", 1)
	matches, err := filepath.Glob(glob)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.New("ghostscript produced no output")
	}
	sort.Strings(matches)

	if len(matches) == 1 {
		if err := os.Rename(matches[0], outPath); err != nil {
			return nil, fmt.Errorf("rename output: %w", err)
		}
		return []string{outPath}, nil
	}
	return matches, nil
}

// findGhostscript locates the Ghostscript binary on the PATH.
func findGhostscript() (string, error) {
	for _, name := range ghostscriptNames {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrGhostscriptNotFound
}
