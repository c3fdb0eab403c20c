// Package converters provides the per-format conversion units and the
// registry that maps (source, target) format pairs onto them.
//
// Every converter is a pure function from a source document plus options to
// a freshly built target document; input documents are never mutated.
package converters

import (
	"fmt"
	"strings"
)

// mapAt returns the map stored under key, or nil when absent or not a map.
func mapAt(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	child, _ := m[key].(map[string]any)
	return child
}

// sliceAt returns the slice stored under key, or nil when absent.
func sliceAt(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	child, _ := m[key].([]any)
	return child
}

// stringAt returns the string stored under key, or "" when absent.
func stringAt(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// intAt returns the integer stored under key, tolerating the float64 values
// produced by encoding/json and the ints produced by yaml.v3.
func intAt(m map[string]any, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// boolAt returns the bool stored under key, with a default for absence.
func boolAt(m map[string]any, key string, def bool) bool {
	if m == nil {
		return def
	}
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

// mediaTypeOf strips parameters from a MIME type ("application/json;
// charset=utf-8" becomes "application/json").
func mediaTypeOf(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	return strings.TrimSpace(mime)
}

// isJSONMedia reports whether the MIME type carries a JSON payload.
func isJSONMedia(mime string) bool {
	return strings.Contains(strings.ToLower(mime), "json")
}

// titleWord uppercases the first rune of a lowercase word.
func titleWord(w string) string {
	if w == "" {
		return ""
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

// pascalWords converts an arbitrary string into PascalCase words, splitting
// on any non-alphanumeric rune.
func pascalWords(s string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) {
		b.WriteString(titleWord(strings.ToLower(word)))
	}
	return b.String()
}

// sanitizeIdent lowercases s and replaces every non-alphanumeric run with a
// single underscore, trimming leading and trailing underscores.
func sanitizeIdent(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// uniqueName returns base if unused, otherwise base with the smallest
// numeric suffix that is unused, and records the chosen name in used.
func uniqueName(base string, used map[string]bool) string {
	name := base
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	used[name] = true
	return name
}
