// Package cli handles command-line argument parsing.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ron96g/cheader-gen/internal/export"
)

// Config holds CLI configuration.
type Config struct {
	OutputDir string        // Output directory for generated files
	Format    export.Format // Model encoding (json or yaml)
	Schemas   bool          // Also write one JSON Schema per struct
	SchemaID  string        // Base URL for $id field
	Verbose   bool          // Debug logging
	Paths     []string      // Token dumps, "-" for stdin
}

// Parse parses the process arguments and returns configuration.
func Parse() (*Config, error) {
	return ParseArgs(flag.CommandLine, os.Args[1:])
}

// ParseArgs parses args on fs.
func ParseArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	var format string

	fs.StringVar(&cfg.OutputDir, "output-dir", "", "Output directory for generated files (required)")
	fs.StringVar(&format, "format", string(export.FormatJSON), "Model format (json/yaml)")
	fs.BoolVar(&cfg.Schemas, "schema", false, "Also write a JSON Schema per struct")
	fs.StringVar(&cfg.SchemaID, "schema-id", "", "Base URL for $id field")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log parsing details")
	fs.BoolVar(&cfg.Verbose, "v", false, "Log parsing details (shorthand for --verbose)")

	fs.Usage = func() { usage(fs.Output(), fs) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Validate required flags
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("--output-dir is required")
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	cfg.Format = f

	if cfg.SchemaID != "" && !cfg.Schemas {
		return nil, fmt.Errorf("--schema-id requires --schema")
	}

	// Get input dumps from positional arguments
	cfg.Paths = fs.Args()
	if len(cfg.Paths) == 0 {
		// Default to standard input
		cfg.Paths = []string{"-"}
	}

	return cfg, nil
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: cheader-gen [flags] [dumps...]\n\n")
	fmt.Fprintf(w, "Builds a header model from `clang -dump-raw-tokens` output.\n\n")
	fmt.Fprintf(w, "Flags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  clang -fsyntax-only -Xclang -dump-raw-tokens api.h 2> api.tokens\n")
	fmt.Fprintf(w, "  cheader-gen --output-dir gen api.tokens\n")
	fmt.Fprintf(w, "  cheader-gen --output-dir gen --format yaml --schema api.tokens\n")
	fmt.Fprintf(w, "  clang -fsyntax-only -Xclang -dump-raw-tokens api.h 2>&1 | cheader-gen --output-dir gen -\n")
	fmt.Fprintf(w, "\nAnnotations:\n")
	fmt.Fprintf(w, "  // #meta: persistent; for_struct;        declaration flags\n")
	fmt.Fprintf(w, "  // #meta_param: buf; length(count);     parameter flags\n")
}
