package domain

import "encoding/json"

// Document is the universal in-memory representation of a parsed JSON or
// YAML document: a tree of maps, slices and scalars. Format-specific meaning
// is imposed by the converters, not by this type.
type Document = map[string]any

// CloneDocument returns a deep copy of the document. Converters never mutate
// their input; anything that needs to reshape a subtree copies it first.
func CloneDocument(doc Document) Document {
	if doc == nil {
		return nil
	}
	return cloneValue(doc).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// NormalizeDocument re-encodes the document through JSON so that every
// nested value uses the encoding/json value model (map[string]any, []any,
// float64 numbers). YAML decoding produces ints and other scalar types that
// schema validation and structural comparison should not have to special-case.
func NormalizeDocument(doc Document) (Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
