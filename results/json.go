package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/BaSui01/clinicalflow/pipeline"
)

// JSONWriter writes a batch summary as an indented UTF-8 report.
type JSONWriter struct {
	path   string
	logger *zap.Logger
}

// NewJSONWriter creates a writer targeting path.
func NewJSONWriter(path string, logger *zap.Logger) *JSONWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONWriter{path: path, logger: logger.With(zap.String("component", "json_report"))}
}

// Path returns the report location.
func (w *JSONWriter) Path() string { return w.path }

// Encode renders summary with two-space indentation. Non-ASCII text and
// markup characters are written literally.
func Encode(summary pipeline.Summary) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the report atomically: a sibling temp file is written and
// renamed over the target.
func (w *JSONWriter) Write(summary pipeline.Summary) error {
	data, err := Encode(summary)
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".results-*.json")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}

	w.logger.Info("report written",
		zap.String("path", w.path),
		zap.Int("total", summary.Total),
		zap.Int("ok", summary.OK),
		zap.Int("failed", summary.Failed),
	)
	return nil
}
