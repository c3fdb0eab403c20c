// Package validator checks documents against the bundled format schemas.
//
// Validation failures are reported as data (domain.ValidationResult), never
// as errors; an error is returned only when the named schema itself cannot
// be resolved or compiled.
package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/specconv/specconv/internal/domain"
	"github.com/specconv/specconv/internal/schemas"
)

// Validator validates documents against named schemas from a registry or
// against inline schemas. Compiled schemas are cached per name.
type Validator struct {
	registry *schemas.Registry

	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// New creates a Validator backed by the given schema registry.
func New(registry *schemas.Registry) *Validator {
	return &Validator{
		registry: registry,
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// ValidateNamed validates the document against the schema registered under
// name. It fails with domain.ErrSchemaNotFound when the name is unknown.
func (v *Validator) ValidateNamed(doc domain.Document, name string) (domain.ValidationResult, error) {
	sch, err := v.schemaFor(name)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	return v.run(doc, sch)
}

// ValidateFormat validates the document against the schema declared by the
// format. Rendering-only formats have no schema and always validate.
func (v *Validator) ValidateFormat(doc domain.Document, format domain.Format) (domain.ValidationResult, error) {
	schemaName := format.Info().SchemaName
	if schemaName == "" {
		return domain.ValidationResult{Valid: true}, nil
	}
	return v.ValidateNamed(doc, schemaName)
}

// ValidateInline validates the document against an inline JSON Schema.
func (v *Validator) ValidateInline(doc domain.Document, schema json.RawMessage) (domain.ValidationResult, error) {
	sch, err := jsonschema.CompileString("inline.json", string(schema))
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("compile inline schema: %w", err)
	}
	return v.run(doc, sch)
}

// ValidateOpenAPI3Deep runs the full kin-openapi structural validation over
// an OpenAPI 3 document. This goes well beyond the bundled JSON Schema and
// catches semantic problems such as dangling $refs.
func (v *Validator) ValidateOpenAPI3Deep(ctx context.Context, doc domain.Document) (domain.ValidationResult, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("encode document: %w", err)
	}

	loader := openapi3.NewLoader()
	parsed, err := loader.LoadFromData(data)
	if err != nil {
		return domain.ValidationResult{Valid: false, Error: err.Error()}, nil
	}
	if err := parsed.Validate(ctx); err != nil {
		return domain.ValidationResult{Valid: false, Error: err.Error()}, nil
	}
	return domain.ValidationResult{Valid: true}, nil
}

func (v *Validator) schemaFor(name string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if sch, ok := v.compiled[name]; ok {
		return sch, nil
	}

	raw, err := v.registry.Get(name)
	if err != nil {
		return nil, err
	}
	sch, err := jsonschema.CompileString(name+".json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	v.compiled[name] = sch
	return sch, nil
}

func (v *Validator) run(doc domain.Document, sch *jsonschema.Schema) (domain.ValidationResult, error) {
	// The schema library expects the encoding/json value model; YAML-decoded
	// documents carry ints and need normalising first.
	normalized, err := domain.NormalizeDocument(doc)
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("normalize document: %w", err)
	}

	if err := sch.Validate(map[string]any(normalized)); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			leaf := firstLeaf(verr)
			return domain.ValidationResult{
				Valid: false,
				Error: leaf.Message,
				Path:  leaf.InstanceLocation,
			}, nil
		}
		return domain.ValidationResult{Valid: false, Error: err.Error()}, nil
	}
	return domain.ValidationResult{Valid: true}, nil
}

// firstLeaf descends into the first cause chain so the reported message and
// instance path point at the innermost offending node.
func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}
