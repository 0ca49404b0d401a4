// Package store persists outline records under their source document's base
// name: report.docx becomes <dir>/report.json (or .yaml).
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dgallion1/docoutline/internal/doctree"
	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding of a record.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a configured output format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %q", s)
	}
}

// Writer writes records into a directory.
type Writer struct {
	dir      string
	format   Format
	attempts uint
}

// NewWriter returns a Writer for dir. The directory is created on first write.
func NewWriter(dir string, format Format) *Writer {
	if format == "" {
		format = FormatJSON
	}
	return &Writer{dir: dir, format: format, attempts: 3}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// PathFor returns the output path for a source document name.
func (w *Writer) PathFor(sourceName string) string {
	base := filepath.Base(sourceName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(w.dir, base+"."+string(w.format))
}

// Encode renders a record in the writer's format.
func (w *Writer) Encode(rec doctree.Record) ([]byte, error) {
	return Encode(rec, w.format)
}

// Encode renders a record. JSON is indented with four spaces and leaves
// non-ASCII and HTML characters unescaped.
func Encode(rec doctree.Record, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(rec)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(rec); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// Write validates rec and writes it atomically, returning the final path.
// Nothing is written when validation or encoding fails.
func (w *Writer) Write(ctx context.Context, sourceName string, rec doctree.Record) (string, error) {
	if err := Validate(rec); err != nil {
		return "", err
	}
	data, err := w.Encode(rec)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	path := w.PathFor(sourceName)
	err = retry.Do(
		func() error { return writeAtomic(path, data) },
		retry.Context(ctx),
		retry.Attempts(w.attempts),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
