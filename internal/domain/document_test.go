package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneDocumentIsDeep(t *testing.T) {
	original := Document{
		"info": map[string]any{"title": "API"},
		"tags": []any{"a", map[string]any{"name": "b"}},
	}

	clone := CloneDocument(original)
	require.Equal(t, map[string]any(original), map[string]any(clone))

	clone["info"].(map[string]any)["title"] = "changed"
	clone["tags"].([]any)[1].(map[string]any)["name"] = "changed"

	assert.Equal(t, "API", original["info"].(map[string]any)["title"])
	assert.Equal(t, "b", original["tags"].([]any)[1].(map[string]any)["name"])
}

func TestNormalizeDocument(t *testing.T) {
	// yaml.v3 decodes numbers as int; the normalised form follows the
	// encoding/json value model.
	doc := map[string]any{
		"count":  3,
		"nested": map[string]any{"ratio": 1.5, "n": int64(7)},
		"list":   []any{1, 2},
	}

	normalized, err := NormalizeDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, float64(3), normalized["count"])
	assert.Equal(t, float64(7), normalized["nested"].(map[string]any)["n"])
	assert.Equal(t, 1.5, normalized["nested"].(map[string]any)["ratio"])
	assert.Equal(t, []any{float64(1), float64(2)}, normalized["list"])
}
