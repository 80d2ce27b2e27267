// Package formatter renders scan output: the knowledge-base JSON document and
// the human-readable run summary.
package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"alpenlodge/internal/models"
)

// ErrNilDocument is returned when there is nothing to encode.
var ErrNilDocument = errors.New("document is nil")

const indent = "  "

// EncodeDocument writes doc as UTF-8 JSON with two-space indentation and a
// trailing newline. Non-ASCII text is written as-is.
func EncodeDocument(w io.Writer, doc *models.Document) error {
	if doc == nil {
		return ErrNilDocument
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	return nil
}

// MarshalDocument returns the encoded form of doc.
func MarshalDocument(doc *models.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, doc); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteDocument encodes doc to path, creating parent directories. The file is
// written to a sibling temp file first and renamed into place. It returns the
// bytes written.
func WriteDocument(path string, doc *models.Document) ([]byte, error) {
	data, err := MarshalDocument(doc)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("failed to move output file into place: %w", err)
	}

	return data, nil
}
