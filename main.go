// cheader-gen builds a language neutral model of a C header from the raw
// token dump clang prints, ready for binding generators.
//
// Usage:
//
//	cheader-gen --output-dir gen [--format json|yaml] [--schema] [dumps...]
//
// Example go:generate directive:
//
//	//go:generate sh -c "clang -fsyntax-only -Xclang -dump-raw-tokens api.h 2>&1 | cheader-gen --output-dir gen -"
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ron96g/cheader-gen/internal/cli"
	"github.com/ron96g/cheader-gen/internal/generator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := cli.Parse()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	genCfg := generator.Config{
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		Schemas:   cfg.Schemas,
		SchemaID:  cfg.SchemaID,
		Logger:    logger,
	}

	gen := generator.NewGenerator(genCfg)
	return gen.GenerateFromPaths(cfg.Paths)
}
