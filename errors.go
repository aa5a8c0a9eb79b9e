package docshift

import (
	"errors"
	"fmt"
)

// Sentinel errors callers can match with errors.Is.
var (
	// ErrInputNotFound indicates the input file does not exist or cannot
	// be opened.
	ErrInputNotFound = errors.New("input file not found")

	// ErrUnsupportedConversion indicates the requested conversion token
	// is not registered.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrExternalToolMissing indicates a required external program
	// (Ghostscript, a browser) is not installed.
	ErrExternalToolMissing = errors.New("required external tool not found")
)

// BuildError wraps a failure with the pipeline stage it occurred in, so
// callers can tell extraction problems from emission problems.
type BuildError struct {
	// Stage names the pipeline phase: "extract", "emit", or "rasterize".
	Stage string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func extractErr(err error) error {
	return &BuildError{Stage: "extract", Err: err}
}

func emitErr(err error) error {
	return &BuildError{Stage: "emit", Err: err}
}

func rasterErr(err error) error {
	return &BuildError{Stage: "rasterize", Err: err}
}
