// Package fileio reads and writes documents on disk, choosing the encoding
// from the file extension.
package fileio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/specconv/specconv/internal/domain"
)

// Decode parses raw bytes into a document. Input starting with '{' or '['
// is treated as JSON, anything else as YAML; YAML values are normalised to
// the encoding/json value model so converters see one representation.
func Decode(data []byte) (domain.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", domain.ErrMalformedInput)
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		var doc domain.Document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
		}
		return doc, nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is not an object", domain.ErrMalformedInput)
	}
	normalized, err := domain.NormalizeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	return normalized, nil
}

// Encode serialises a document as indented JSON or as YAML.
func Encode(doc domain.Document, asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(map[string]any(doc))
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Load reads and decodes the document at path.
func Load(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Save encodes the document and writes it to path, YAML for .yaml and .yml
// and JSON otherwise. Parent directories are created as needed.
func Save(doc domain.Document, path string) error {
	data, err := Encode(doc, IsYAMLPath(path))
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return WriteRaw(data, path)
}

// WriteRaw writes already encoded bytes to path, creating parent
// directories as needed.
func WriteRaw(data []byte, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// IsYAMLPath reports whether path carries a YAML extension.
func IsYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
