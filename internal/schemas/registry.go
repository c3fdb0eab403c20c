// Package schemas bundles the JSON Schema documents for every supported
// specification format and exposes them through a small registry.
//
// The schema files are embedded at build time and parsed once; after startup
// the registry is read-mostly. Register overwrites an existing entry with
// last-write-wins semantics.
package schemas

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/specconv/specconv/internal/domain"
)

// Registry maps schema names to their raw JSON Schema documents.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]json.RawMessage
}

// New builds a registry populated from the embedded schema bundle. The
// schema name is the file name without extension (har, openapi3, swagger,
// postman, hoppscotch).
func New() (*Registry, error) {
	entries, err := fs.Glob(Files, "files/*.json")
	if err != nil {
		return nil, fmt.Errorf("list embedded schemas: %w", err)
	}
	sort.Strings(entries)

	r := &Registry{schemas: make(map[string]json.RawMessage, len(entries))}
	for _, filename := range entries {
		b, err := fs.ReadFile(Files, filename)
		if err != nil {
			return nil, fmt.Errorf("read embedded schema %q: %w", filename, err)
		}
		if !json.Valid(b) {
			return nil, fmt.Errorf("embedded schema %q is not valid JSON", filename)
		}
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		r.schemas[name] = json.RawMessage(b)
	}
	return r, nil
}

// Get returns the raw schema document registered under name. It fails with
// domain.ErrSchemaNotFound for unknown names.
func (r *Registry) Get(name string) (json.RawMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrSchemaNotFound, name)
	}
	return schema, nil
}

// Register inserts or overwrites the schema stored under name. There is no
// merging; the last write wins.
func (r *Registry) Register(name string, schema json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[name] = schema
}

// Names returns the registered schema names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
