// Command docshift converts documents between office and web formats.
//
// Usage:
//
//	docshift <conversion> <input> <output>
//
// For example:
//
//	docshift pdf-to-word report.pdf report.docx
//	docshift excel-to-pdf books.xlsx books.pdf --dpi 300
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/tsawler/docshift"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("docshift", pflag.ContinueOnError)
	dpi := flags.Int("dpi", 150, "render resolution for image output")
	quality := flags.Int("quality", 90, "JPEG quality for image output")
	timeout := flags.Duration("timeout", 2*time.Minute, "limit for external renderers")
	noImages := flags.Bool("no-images", false, "skip embedded images during extraction")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.Usage = func() { usage(flags) }

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Printf("ERROR: %v\n", err)
		return 1
	}

	rest := flags.Args()
	if len(rest) != 3 {
		usage(flags)
		return 1
	}
	conversion, input, output := rest[0], rest[1], rest[2]

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conv := docshift.NewWithOptions(docshift.Options{
		DPI:           *dpi,
		Quality:       *quality,
		Timeout:       *timeout,
		ExtractImages: !*noImages,
		Logger:        logger,
	})
	defer conv.Close()

	warnings, err := conv.Convert(ctx, conversion, input, output)
	for _, w := range warnings {
		fmt.Printf("WARNING: %s\n", w)
	}
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return 1
	}

	fmt.Printf("SUCCESS: converted %s to %s\n", input, output)
	return 0
}

func usage(flags *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: docshift <conversion> <input> <output> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Conversions:\n  %s\n\n", strings.Join(docshift.Conversions(), "\n  "))
	fmt.Fprintf(os.Stderr, "Flags:\n%s", flags.FlagUsages())
}
