// Package generator orchestrates model and schema generation from clang
// token dumps.
package generator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ron96g/cheader-gen/internal/export"
	"github.com/ron96g/cheader-gen/internal/parser"
	"github.com/ron96g/cheader-gen/internal/schema"
)

// StdinPath is the path that reads the dump from standard input.
const StdinPath = "-"

// dumpExts are stripped from input paths to name the outputs.
var dumpExts = []string{".tokens", ".dump", ".txt", ".h"}

// Generator orchestrates the parsing and generation process.
type Generator struct {
	writer   *Writer
	format   export.Format
	schemas  bool
	schemaID string
	stdin    io.Reader
	log      *slog.Logger
}

// Config holds generator configuration.
type Config struct {
	OutputDir string
	Format    export.Format // Model encoding
	Schemas   bool          // Also write one JSON Schema per struct
	SchemaID  string        // Base URL for $id field
	Stdin     io.Reader     // Source for StdinPath, os.Stdin when nil
	Stdout    io.Writer     // Progress output, os.Stdout when nil
	Logger    *slog.Logger  // Diagnostics, slog.Default() when nil
}

// NewGenerator creates a new Generator.
func NewGenerator(cfg Config) *Generator {
	g := &Generator{
		writer:   NewWriter(cfg.OutputDir, cfg.Stdout),
		format:   cfg.Format,
		schemas:  cfg.Schemas,
		schemaID: cfg.SchemaID,
		stdin:    cfg.Stdin,
		log:      cfg.Logger,
	}
	if g.format == "" {
		g.format = export.FormatJSON
	}
	if g.stdin == nil {
		g.stdin = os.Stdin
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	return g
}

type parsedHeader struct {
	name   string
	header *parser.Header
}

// GenerateFromPaths parses every dump and then writes their outputs. Nothing
// is written when any dump fails to parse.
func (g *Generator) GenerateFromPaths(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no token dumps given")
	}

	headers := make([]parsedHeader, 0, len(paths))
	for _, path := range paths {
		raw, err := g.read(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		h, err := parser.ParseDump(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		g.log.Debug("parsed header",
			"path", path,
			"includes", len(h.Includes),
			"constants", len(h.Constants),
			"enums", len(h.Enums),
			"structs", len(h.Structs),
			"functions", len(h.Functions),
		)
		headers = append(headers, parsedHeader{name: HeaderName(path), header: h})
	}

	for _, ph := range headers {
		if err := g.Generate(ph.name, ph.header); err != nil {
			return fmt.Errorf("generate %s: %w", ph.name, err)
		}
	}

	return nil
}

// Generate writes the outputs of one parsed header.
func (g *Generator) Generate(name string, h *parser.Header) error {
	model := export.FromHeader(name, h)
	if _, err := g.writer.WriteModel(name, model, g.format); err != nil {
		return fmt.Errorf("write model: %w", err)
	}

	if !g.schemas {
		return nil
	}
	return g.generateSchemas(h)
}

// generateSchemas writes one schema per non-opaque struct, referenced
// structs first.
func (g *Generator) generateSchemas(h *parser.Header) error {
	builder := schema.NewBuilder(g.schemaID)
	builder.SetHeader(h)

	depGraph := schema.NewDependencyGraph()
	var typeNames []string

	for _, s := range h.Structs {
		if s.Opaque() {
			g.log.Debug("skipping opaque struct", "struct", s.Name)
			continue
		}

		_, refs, err := builder.BuildSchemaWithRefs(s)
		if err != nil {
			return fmt.Errorf("analyze refs for %s: %w", s.Name, err)
		}
		for _, ref := range refs {
			depGraph.AddDependency(s.Name, ref)
		}
		typeNames = append(typeNames, s.Name)
	}

	if len(typeNames) == 0 {
		g.log.Info("no struct with visible members, no schema written")
		return nil
	}

	// Topologically sort to generate dependencies first
	sortedTypes, err := depGraph.TopologicalSort(typeNames)
	var cycle *schema.CycleError
	switch {
	case errors.As(err, &cycle):
		// $ref points at sibling files, so a cycle only costs the ordering
		g.log.Warn("structs reference each other, keeping declaration order", "cycle", cycle.Types)
		sortedTypes = slices.Clone(typeNames)
	case err != nil:
		return fmt.Errorf("dependency sort: %w", err)
	}

	for _, typeName := range sortedTypes {
		s, _ := h.Struct(typeName)

		jsonSchema, err := builder.BuildSchema(s, schema.NewRefTracker())
		if err != nil {
			return fmt.Errorf("build schema for %s: %w", typeName, err)
		}

		if _, err := g.writer.WriteSchema(typeName, jsonSchema); err != nil {
			return fmt.Errorf("write schema for %s: %w", typeName, err)
		}
	}

	return nil
}

func (g *Generator) read(path string) (string, error) {
	if path == StdinPath {
		data, err := io.ReadAll(g.stdin)
		return string(data), err
	}

	data, err := os.ReadFile(path)
	return string(data), err
}

// HeaderName derives the output name from a dump path:
// `dumps/point.h.tokens` becomes `point`.
func HeaderName(path string) string {
	if path == StdinPath {
		return "stdin"
	}

	name := filepath.Base(path)
	for {
		ext := filepath.Ext(name)
		if ext == "" || ext == name || !slices.Contains(dumpExts, strings.ToLower(ext)) {
			return name
		}
		name = strings.TrimSuffix(name, ext)
	}
}
