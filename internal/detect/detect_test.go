package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specconv/specconv/internal/domain"
)

func TestDetectFromShape(t *testing.T) {
	tests := []struct {
		name string
		doc  domain.Document
		want domain.Format
		ok   bool
	}{
		{
			name: "har",
			doc:  domain.Document{"log": map[string]any{"entries": []any{}}},
			want: domain.FormatHAR,
			ok:   true,
		},
		{
			name: "openapi3",
			doc:  domain.Document{"openapi": "3.0.0", "info": map[string]any{}, "paths": map[string]any{}},
			want: domain.FormatOpenAPI3,
			ok:   true,
		},
		{
			name: "openapi 3.1",
			doc:  domain.Document{"openapi": "3.1.0"},
			want: domain.FormatOpenAPI3,
			ok:   true,
		},
		{
			name: "swagger",
			doc:  domain.Document{"swagger": "2.0"},
			want: domain.FormatSwagger,
			ok:   true,
		},
		{
			name: "postman by id",
			doc:  domain.Document{"info": map[string]any{"_postman_id": "abc"}},
			want: domain.FormatPostman,
			ok:   true,
		},
		{
			name: "postman by schema",
			doc: domain.Document{
				"info": map[string]any{"schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"},
				"item": []any{},
			},
			want: domain.FormatPostman,
			ok:   true,
		},
		{
			name: "hoppscotch",
			doc:  domain.Document{"v": float64(2), "name": "c", "folders": []any{}, "requests": []any{}},
			want: domain.FormatHoppscotch,
			ok:   true,
		},
		{
			name: "openapi version not a string",
			doc:  domain.Document{"openapi": float64(3)},
			ok:   false,
		},
		{
			name: "unrecognisable",
			doc:  domain.Document{"hello": "world"},
			ok:   false,
		},
		{
			name: "nil document",
			doc:  nil,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Detect(tt.doc, "")
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDetectHintWinsWhenUnambiguous(t *testing.T) {
	got, ok := Detect(domain.Document{}, "capture.har")
	assert.True(t, ok)
	assert.Equal(t, domain.FormatHAR, got)

	got, ok = Detect(domain.Document{}, "api.postman_collection.json")
	assert.True(t, ok)
	assert.Equal(t, domain.FormatPostman, got)

	// .json is ambiguous; the shape decides.
	got, ok = Detect(domain.Document{"swagger": "2.0"}, "api.json")
	assert.True(t, ok)
	assert.Equal(t, domain.FormatSwagger, got)
}

func TestTargetFromPath(t *testing.T) {
	tests := []struct {
		path string
		want domain.Format
		ok   bool
	}{
		{path: "out.pdf", want: domain.FormatPDF, ok: true},
		{path: "out.docx", want: domain.FormatDocx, ok: true},
		{path: "out.har", want: domain.FormatHAR, ok: true},
		{path: "out.json", want: domain.FormatOpenAPI3, ok: true},
		{path: "out.yaml", want: domain.FormatOpenAPI3, ok: true},
		{path: "out.yml", want: domain.FormatOpenAPI3, ok: true},
		{path: "out.txt", ok: false},
		{path: "out", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := TargetFromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
