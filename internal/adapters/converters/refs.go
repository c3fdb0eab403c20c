package converters

import "strings"

// refMapping defines one $ref prefix substitution between OpenAPI 3 and
// Swagger 2 component locations.
type refMapping struct {
	from string
	to   string
}

var oas3ToSwaggerRefs = []refMapping{
	{"#/components/schemas/", "#/definitions/"},
	{"#/components/parameters/", "#/parameters/"},
	{"#/components/responses/", "#/responses/"},
	{"#/components/securitySchemes/", "#/securityDefinitions/"},
}

var swaggerToOAS3Refs = []refMapping{
	{"#/definitions/", "#/components/schemas/"},
	{"#/parameters/", "#/components/parameters/"},
	{"#/responses/", "#/components/responses/"},
	{"#/securityDefinitions/", "#/components/securitySchemes/"},
}

// rewriteRef applies the first matching prefix mapping to a local $ref.
// External references pass through untouched.
func rewriteRef(ref string, mappings []refMapping) string {
	if !strings.HasPrefix(ref, "#/") {
		return ref
	}
	for _, m := range mappings {
		if strings.HasPrefix(ref, m.from) {
			return m.to + ref[len(m.from):]
		}
	}
	return ref
}

// rewriteRefsDeep deep-copies a value tree, rewriting every $ref string it
// encounters. The input is never mutated.
func rewriteRefsDeep(v any, mappings []refMapping) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for key, val := range t {
			if key == "$ref" {
				if ref, ok := val.(string); ok {
					out[key] = rewriteRef(ref, mappings)
					continue
				}
			}
			out[key] = rewriteRefsDeep(val, mappings)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = rewriteRefsDeep(val, mappings)
		}
		return out
	default:
		return v
	}
}

// copyMap deep-copies a map subtree without rewriting anything.
func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out, _ := rewriteRefsDeep(m, nil).(map[string]any)
	return out
}
