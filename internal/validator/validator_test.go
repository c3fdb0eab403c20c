package validator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specconv/specconv/internal/domain"
	"github.com/specconv/specconv/internal/schemas"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	registry, err := schemas.New()
	require.NoError(t, err)
	return New(registry)
}

func TestValidateNamed(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name   string
		schema string
		doc    domain.Document
		valid  bool
	}{
		{
			name:   "valid har",
			schema: "har",
			doc: domain.Document{
				"log": map[string]any{"version": "1.2", "entries": []any{}},
			},
			valid: true,
		},
		{
			name:   "har missing log",
			schema: "har",
			doc:    domain.Document{"entries": []any{}},
			valid:  false,
		},
		{
			name:   "valid openapi3",
			schema: "openapi3",
			doc: domain.Document{
				"openapi": "3.0.0",
				"info":    map[string]any{"title": "API", "version": "1.0.0"},
				"paths":   map[string]any{},
			},
			valid: true,
		},
		{
			name:   "openapi3 with swagger version",
			schema: "openapi3",
			doc: domain.Document{
				"openapi": "2.0",
				"info":    map[string]any{"title": "API", "version": "1.0.0"},
				"paths":   map[string]any{},
			},
			valid: false,
		},
		{
			name:   "valid swagger",
			schema: "swagger",
			doc: domain.Document{
				"swagger": "2.0",
				"info":    map[string]any{"title": "API", "version": "1.0.0"},
				"paths":   map[string]any{},
			},
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ValidateNamed(tt.doc, tt.schema)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.Error)
			}
		})
	}
}

func TestValidateNamedUnknownSchema(t *testing.T) {
	v := newValidator(t)

	_, err := v.ValidateNamed(domain.Document{}, "grpc")
	assert.ErrorIs(t, err, domain.ErrSchemaNotFound)
}

func TestValidateFormatRenderingTargets(t *testing.T) {
	v := newValidator(t)

	// pdf and docx carry no schema and always validate.
	result, err := v.ValidateFormat(domain.Document{}, domain.FormatPDF)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateInline(t *testing.T) {
	v := newValidator(t)
	schema := json.RawMessage(`{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`)

	result, err := v.ValidateInline(domain.Document{"name": "x"}, schema)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = v.ValidateInline(domain.Document{"other": 1}, schema)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Error)
}

func TestValidateOpenAPI3Deep(t *testing.T) {
	v := newValidator(t)

	valid := domain.Document{
		"openapi": "3.0.0",
		"info":    map[string]any{"title": "API", "version": "1.0.0"},
		"paths":   map[string]any{},
	}
	result, err := v.ValidateOpenAPI3Deep(context.Background(), valid)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	dangling := domain.Document{
		"openapi": "3.0.0",
		"info":    map[string]any{"title": "API", "version": "1.0.0"},
		"paths": map[string]any{
			"/users": map[string]any{
				"get": map[string]any{
					"responses": map[string]any{
						"200": map[string]any{
							"description": "OK",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{"$ref": "#/components/schemas/Missing"},
								},
							},
						},
					},
				},
			},
		},
	}
	result, err = v.ValidateOpenAPI3Deep(context.Background(), dangling)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}
