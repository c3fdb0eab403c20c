package converters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specconv/specconv/internal/domain"
)

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer()

	var buf bytes.Buffer
	require.NoError(t, r.Render(openapi3Fixture(), &buf))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output does not start with a PDF header")
	assert.Greater(t, len(out), 1000)
}

func TestPDFRendererMalformed(t *testing.T) {
	r := NewPDFRenderer()

	var buf bytes.Buffer
	err := r.Render(domain.Document{"swagger": "2.0"}, &buf)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestDocxRenderer(t *testing.T) {
	r := NewDocxRenderer()

	var buf bytes.Buffer
	require.NoError(t, r.Render(openapi3Fixture(), &buf))

	// DOCX files are zip archives.
	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("PK")), "output is not a zip archive")
	assert.Greater(t, len(out), 500)
}

func TestDocxRendererMalformed(t *testing.T) {
	r := NewDocxRenderer()

	var buf bytes.Buffer
	err := r.Render(domain.Document{}, &buf)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestSchemaLabel(t *testing.T) {
	tests := []struct {
		name   string
		schema map[string]any
		want   string
	}{
		{name: "nil", schema: nil, want: ""},
		{name: "ref", schema: map[string]any{"$ref": "#/components/schemas/Order"}, want: "Order"},
		{name: "scalar", schema: map[string]any{"type": "string"}, want: "string"},
		{name: "formatted", schema: map[string]any{"type": "integer", "format": "int64"}, want: "integer (int64)"},
		{
			name:   "array of refs",
			schema: map[string]any{"type": "array", "items": map[string]any{"$ref": "#/components/schemas/Item"}},
			want:   "[]Item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schemaLabel(tt.schema))
		})
	}
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "hello world", stripHTML("<p>hello <b>world</b></p>"))
	assert.Equal(t, "a & b", stripHTML("a &amp; b"))
	assert.Equal(t, "plain", stripHTML("plain"))
}
