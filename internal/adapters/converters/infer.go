package converters

import (
	"encoding/json"
	"math"
)

// inferSchema derives a JSON Schema fragment from a decoded JSON value.
// Objects become type:object with per-key schemas, arrays take their items
// schema from the first element (a permissive schema when empty), and
// scalars map onto the runtime type, distinguishing integer from number by
// the absence of a fractional component.
func inferSchema(value any) map[string]any {
	switch v := value.(type) {
	case map[string]any:
		properties := make(map[string]any, len(v))
		for key, val := range v {
			properties[key] = inferSchema(val)
		}
		return map[string]any{"type": "object", "properties": properties}
	case []any:
		if len(v) == 0 {
			return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
		}
		return map[string]any{"type": "array", "items": inferSchema(v[0])}
	case bool:
		return map[string]any{"type": "boolean"}
	case float64:
		if v == math.Trunc(v) {
			return map[string]any{"type": "integer"}
		}
		return map[string]any{"type": "number"}
	case int:
		return map[string]any{"type": "integer"}
	case int64:
		return map[string]any{"type": "integer"}
	case string:
		return map[string]any{"type": "string"}
	case nil:
		return map[string]any{"type": "null"}
	default:
		return map[string]any{"type": "string"}
	}
}

// canonicalSchema returns a deterministic encoding of a schema fragment,
// used to deduplicate structurally identical component schemas.
// encoding/json sorts map keys, which makes the output canonical.
func canonicalSchema(schema map[string]any) string {
	data, err := json.Marshal(schema)
	if err != nil {
		return ""
	}
	return string(data)
}

// mergeSchemas combines two inferred schemas for the same field. Matching
// object schemas union their properties, matching array schemas merge their
// items, identical schemas pass through, and any conflict falls back to the
// permissive string type rather than erroring.
func mergeSchemas(a, b map[string]any) map[string]any {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if canonicalSchema(a) == canonicalSchema(b) {
		return a
	}

	typeA, _ := a["type"].(string)
	typeB, _ := b["type"].(string)
	if typeA != typeB {
		// integer widens to number; everything else degrades to string.
		if (typeA == "integer" && typeB == "number") || (typeA == "number" && typeB == "integer") {
			return map[string]any{"type": "number"}
		}
		return map[string]any{"type": "string"}
	}

	switch typeA {
	case "object":
		propsA, _ := a["properties"].(map[string]any)
		propsB, _ := b["properties"].(map[string]any)
		merged := make(map[string]any, len(propsA)+len(propsB))
		for key, val := range propsA {
			merged[key] = val
		}
		for key, val := range propsB {
			schemaB, _ := val.(map[string]any)
			if existing, ok := merged[key].(map[string]any); ok {
				merged[key] = mergeSchemas(existing, schemaB)
			} else {
				merged[key] = val
			}
		}
		return map[string]any{"type": "object", "properties": merged}
	case "array":
		itemsA, _ := a["items"].(map[string]any)
		itemsB, _ := b["items"].(map[string]any)
		return map[string]any{"type": "array", "items": mergeSchemas(itemsA, itemsB)}
	default:
		// Same scalar type but different decoration (examples); keep the
		// first-seen schema.
		return a
	}
}
