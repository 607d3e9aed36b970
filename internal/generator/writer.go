package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/ron96g/cheader-gen/internal/export"
	"github.com/ron96g/cheader-gen/internal/schema"
)

// Writer handles writing generated files to disk.
type Writer struct {
	outputDir string
	out       io.Writer // Progress output
}

// NewWriter creates a new Writer reporting progress on out.
func NewWriter(outputDir string, out io.Writer) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		outputDir: outputDir,
		out:       out,
	}
}

// WriteSchema writes a JSON Schema to <typename>.schema.json.
func (w *Writer) WriteSchema(typeName string, s *jsonschema.Schema) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}

	return w.write(schema.GetSchemaFilename(typeName), append(data, '\n'))
}

// WriteModel writes the header model to <name>.model.<format>.
func (w *Writer) WriteModel(name string, m *export.Model, format export.Format) (string, error) {
	data, err := m.Encode(format)
	if err != nil {
		return "", err
	}

	return w.write(ModelFilename(name, format), data)
}

func (w *Writer) write(filename string, data []byte) (string, error) {
	// Ensure output directory exists
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	fmt.Fprintf(w.out, "Generated: %s\n", path)
	return path, nil
}

// ModelFilename returns the model filename for a header.
func ModelFilename(name string, format export.Format) string {
	return name + ".model" + format.Ext()
}
