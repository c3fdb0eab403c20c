package converters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specconv/specconv/internal/domain"
)

func harDoc(entries ...any) domain.Document {
	return domain.Document{
		"log": map[string]any{
			"version": "1.2",
			"entries": entries,
		},
	}
}

func harEntry(method, url string, status int, responseBody string) map[string]any {
	entry := map[string]any{
		"request": map[string]any{
			"method":  method,
			"url":     url,
			"headers": []any{},
		},
		"response": map[string]any{
			"status":     status,
			"statusText": "",
		},
	}
	if responseBody != "" {
		entry["response"].(map[string]any)["content"] = map[string]any{
			"mimeType": "application/json",
			"text":     responseBody,
		}
	}
	return entry
}

func TestHARToOpenAPI3Basics(t *testing.T) {
	c := NewHARToOpenAPI3()

	entry := harEntry("GET", "https://api.example.com/api/users?page=1", 200, `[{"id":1,"name":"a"}]`)
	entry["request"].(map[string]any)["queryString"] = []any{
		map[string]any{"name": "page", "value": "1"},
	}

	out, err := c.Convert(harDoc(entry), domain.Options{})
	require.NoError(t, err)

	assert.Equal(t, "3.0.0", out["openapi"])
	info := out["info"].(map[string]any)
	assert.Equal(t, "API generated from HAR", info["title"])
	assert.Equal(t, "1.0.0", info["version"])

	servers := out["servers"].([]any)
	require.Len(t, servers, 1)
	assert.Equal(t, "https://api.example.com", servers[0].(map[string]any)["url"])

	paths := out["paths"].(map[string]any)
	require.Contains(t, paths, "/api/users")
	op := paths["/api/users"].(map[string]any)["get"].(map[string]any)
	assert.Equal(t, "GET /api/users", op["summary"])
	assert.Equal(t, "get_api_users", op["operationId"])

	params := op["parameters"].([]any)
	require.Len(t, params, 1)
	page := params[0].(map[string]any)
	assert.Equal(t, "page", page["name"])
	assert.Equal(t, "query", page["in"])
	assert.Equal(t, "1", page["schema"].(map[string]any)["example"])

	resp := op["responses"].(map[string]any)["200"].(map[string]any)
	assert.Equal(t, "OK", resp["description"])
	schema := resp["content"].(map[string]any)["application/json"].(map[string]any)["schema"].(map[string]any)
	assert.Equal(t, "#/components/schemas/GetApiUsersResponse", schema["$ref"])

	component := out["components"].(map[string]any)["schemas"].(map[string]any)["GetApiUsersResponse"].(map[string]any)
	assert.Equal(t, "array", component["type"])
}

func TestHARToOpenAPI3QueryOnlyInURL(t *testing.T) {
	// Entries without a queryString list still yield query parameters
	// parsed from the URL itself.
	c := NewHARToOpenAPI3()

	out, err := c.Convert(harDoc(harEntry("GET", "https://api.example.com/search?q=books&limit=10", 200, "")), domain.Options{})
	require.NoError(t, err)

	op := out["paths"].(map[string]any)["/search"].(map[string]any)["get"].(map[string]any)
	params := op["parameters"].([]any)
	require.Len(t, params, 2)
	assert.Equal(t, "q", params[0].(map[string]any)["name"])
	assert.Equal(t, "books", params[0].(map[string]any)["schema"].(map[string]any)["example"])
	assert.Equal(t, "limit", params[1].(map[string]any)["name"])
}

func TestHARToOpenAPI3CollapsesIdentifierPaths(t *testing.T) {
	c := NewHARToOpenAPI3()

	out, err := c.Convert(harDoc(
		harEntry("GET", "https://api.example.com/api/users/1", 200, `{"id":1}`),
		harEntry("GET", "https://api.example.com/api/users/2", 200, `{"id":2}`),
	), domain.Options{})
	require.NoError(t, err)

	paths := out["paths"].(map[string]any)
	require.Len(t, paths, 1)
	require.Contains(t, paths, "/api/users/{id}")

	op := paths["/api/users/{id}"].(map[string]any)["get"].(map[string]any)
	params := op["parameters"].([]any)
	require.Len(t, params, 1)
	idParam := params[0].(map[string]any)
	assert.Equal(t, "id", idParam["name"])
	assert.Equal(t, "path", idParam["in"])
	assert.Equal(t, true, idParam["required"])

	// Structurally identical response bodies share one component.
	schemas := out["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Len(t, schemas, 1)
}

func TestHARToOpenAPI3RequestBody(t *testing.T) {
	c := NewHARToOpenAPI3()

	entry := harEntry("POST", "https://api.example.com/api/users", 201, "")
	entry["request"].(map[string]any)["postData"] = map[string]any{
		"mimeType": "application/json; charset=utf-8",
		"text":     `{"name":"a","age":30}`,
	}

	out, err := c.Convert(harDoc(entry), domain.Options{})
	require.NoError(t, err)

	op := out["paths"].(map[string]any)["/api/users"].(map[string]any)["post"].(map[string]any)
	body := op["requestBody"].(map[string]any)
	assert.Equal(t, true, body["required"])

	schema := body["content"].(map[string]any)["application/json"].(map[string]any)["schema"].(map[string]any)
	assert.Equal(t, "#/components/schemas/PostApiUsersRequest", schema["$ref"])

	component := out["components"].(map[string]any)["schemas"].(map[string]any)["PostApiUsersRequest"].(map[string]any)
	props := component["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string"}, props["name"])
	assert.Equal(t, map[string]any{"type": "integer"}, props["age"])
}

func TestHARToOpenAPI3Headers(t *testing.T) {
	c := NewHARToOpenAPI3()

	entry := harEntry("GET", "https://api.example.com/api/users", 200, "")
	entry["request"].(map[string]any)["headers"] = []any{
		map[string]any{"name": "Authorization", "value": "Bearer token"},
		map[string]any{"name": "X-Request-Id", "value": "abc"},
		map[string]any{"name": "User-Agent", "value": "curl/8.0"},
		map[string]any{"name": "Content-Type", "value": "application/json"},
	}

	paramNames := func(opts domain.Options) []string {
		out, err := c.Convert(harDoc(entry), opts)
		require.NoError(t, err)
		op := out["paths"].(map[string]any)["/api/users"].(map[string]any)["get"].(map[string]any)
		var names []string
		for _, p := range op["parameters"].([]any) {
			names = append(names, p.(map[string]any)["name"].(string))
		}
		return names
	}

	// Noise headers never become parameters; auth headers survive by default.
	assert.Equal(t, []string{"Authorization", "X-Request-Id"}, paramNames(domain.Options{}))
	assert.Equal(t, []string{"X-Request-Id"}, paramNames(domain.Options{SkipAuth: true}))
}

func TestHARToOpenAPI3Empty(t *testing.T) {
	c := NewHARToOpenAPI3()

	out, err := c.Convert(harDoc(), domain.Options{})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{}, out["paths"])
	assert.NotContains(t, out, "servers")
	assert.NotContains(t, out, "components")
}

func TestHARToOpenAPI3Overrides(t *testing.T) {
	c := NewHARToOpenAPI3()

	out, err := c.Convert(harDoc(harEntry("GET", "https://api.example.com/x", 200, "")), domain.Options{
		Title:   "My API",
		Version: "2.1.0",
		Servers: []string{"https://prod.example.com/v1"},
	})
	require.NoError(t, err)

	info := out["info"].(map[string]any)
	assert.Equal(t, "My API", info["title"])
	assert.Equal(t, "2.1.0", info["version"])

	servers := out["servers"].([]any)
	require.Len(t, servers, 1)
	assert.Equal(t, "https://prod.example.com/v1", servers[0].(map[string]any)["url"])
}

func TestHARToOpenAPI3BasePath(t *testing.T) {
	c := NewHARToOpenAPI3()

	out, err := c.Convert(harDoc(harEntry("GET", "https://api.example.com/x", 200, "")), domain.Options{
		BasePath: "/v2",
	})
	require.NoError(t, err)

	servers := out["servers"].([]any)
	assert.Equal(t, "https://api.example.com/v2", servers[0].(map[string]any)["url"])
}

func TestHARToOpenAPI3Malformed(t *testing.T) {
	c := NewHARToOpenAPI3()

	tests := []struct {
		name string
		doc  domain.Document
	}{
		{name: "missing log", doc: domain.Document{"entries": []any{}}},
		{name: "missing entries", doc: domain.Document{"log": map[string]any{"version": "1.2"}}},
		{name: "entries not an array", doc: domain.Document{"log": map[string]any{"entries": "nope"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Convert(tt.doc, domain.Options{})
			assert.ErrorIs(t, err, domain.ErrMalformedInput)
		})
	}
}
