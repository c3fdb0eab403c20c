package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specconv/specconv/internal/domain"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.Document
		wantErr bool
	}{
		{
			name:  "json object",
			input: `{"openapi": "3.0.0", "count": 2}`,
			want:  domain.Document{"openapi": "3.0.0", "count": float64(2)},
		},
		{
			name:  "json with leading whitespace",
			input: "\n  {\"a\": true}",
			want:  domain.Document{"a": true},
		},
		{
			name:  "yaml object",
			input: "openapi: 3.0.0\ninfo:\n  title: API\n  count: 2\n",
			want: domain.Document{
				"openapi": "3.0.0",
				"info":    map[string]any{"title": "API", "count": float64(2)},
			},
		},
		{
			name:    "empty input",
			input:   "   \n",
			wantErr: true,
		},
		{
			name:    "broken json",
			input:   `{"a": }`,
			wantErr: true,
		},
		{
			name:    "yaml scalar is not an object",
			input:   "just a string",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc)
		})
	}
}

func TestEncode(t *testing.T) {
	doc := domain.Document{"name": "api", "version": "1.0.0"}

	jsonData, err := Encode(doc, false)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), "\"name\": \"api\"")

	yamlData, err := Encode(doc, true)
	require.NoError(t, err)
	assert.Contains(t, string(yamlData), "name: api")
}

func TestLoadSaveRoundTrip(t *testing.T) {
	doc := domain.Document{
		"openapi": "3.0.0",
		"info":    map[string]any{"title": "API", "version": "1.0.0"},
	}

	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out", "spec.json")
	require.NoError(t, Save(doc, jsonPath))
	loaded, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	yamlPath := filepath.Join(dir, "spec.yaml")
	require.NoError(t, Save(doc, yamlPath))
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "openapi: 3.0.0")
	loaded, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestIsYAMLPath(t *testing.T) {
	assert.True(t, IsYAMLPath("spec.yaml"))
	assert.True(t, IsYAMLPath("spec.YML"))
	assert.False(t, IsYAMLPath("spec.json"))
	assert.False(t, IsYAMLPath("spec"))
}
