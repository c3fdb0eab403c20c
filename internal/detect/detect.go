// Package detect infers the format of a document from its shape and,
// optionally, a file-name hint.
//
// Detection is an explicit ordered rule list over the document's keys: the
// first rule that matches wins. It reads but never mutates the candidate
// document.
package detect

import (
	"path/filepath"
	"strings"

	"github.com/specconv/specconv/internal/domain"
)

// shapeRule matches one format by the presence and shape of its
// characteristic keys.
type shapeRule struct {
	format domain.Format
	match  func(doc domain.Document) bool
}

// Rule order matters: HAR and the collection formats have unmistakable
// markers and go first; the version-keyed spec formats follow.
var shapeRules = []shapeRule{
	{domain.FormatHAR, func(doc domain.Document) bool {
		log, ok := doc["log"].(map[string]any)
		if !ok {
			return false
		}
		_, ok = log["entries"]
		return ok
	}},
	{domain.FormatOpenAPI3, func(doc domain.Document) bool {
		version, ok := doc["openapi"].(string)
		return ok && strings.HasPrefix(version, "3.")
	}},
	{domain.FormatSwagger, func(doc domain.Document) bool {
		version, ok := doc["swagger"].(string)
		return ok && strings.HasPrefix(version, "2.")
	}},
	{domain.FormatPostman, func(doc domain.Document) bool {
		info, ok := doc["info"].(map[string]any)
		if !ok {
			return false
		}
		if _, ok := info["_postman_id"]; ok {
			return true
		}
		_, hasItem := doc["item"]
		_, hasSchema := info["schema"]
		return hasItem && hasSchema
	}},
	{domain.FormatHoppscotch, func(doc domain.Document) bool {
		_, hasFolders := doc["folders"]
		_, hasRequests := doc["requests"]
		_, hasVersion := doc["v"]
		return hasFolders && hasRequests && hasVersion
	}},
}

// Detect infers the document's format. The hint may be a file name or a
// bare extension; it wins only when it maps unambiguously to one format
// (".har", "*.postman_collection.json"). Otherwise the shape rules decide.
// The second return value is false when neither resolves the format.
func Detect(doc domain.Document, hint string) (domain.Format, bool) {
	if f, ok := fromHint(hint); ok {
		return f, true
	}
	return fromShape(doc)
}

func fromShape(doc domain.Document) (domain.Format, bool) {
	if doc == nil {
		return "", false
	}
	for _, rule := range shapeRules {
		if rule.match(doc) {
			return rule.format, true
		}
	}
	return "", false
}

// fromHint resolves unambiguous file-name hints. The generic .json/.yaml
// extensions are shared by several formats and stay undecided here.
func fromHint(hint string) (domain.Format, bool) {
	if hint == "" {
		return "", false
	}
	name := strings.ToLower(hint)
	if strings.HasSuffix(name, ".postman_collection.json") {
		return domain.FormatPostman, true
	}

	ext := name
	if !strings.HasPrefix(ext, ".") {
		ext = filepath.Ext(name)
	}
	switch ext {
	case ".har":
		return domain.FormatHAR, true
	case ".pdf":
		return domain.FormatPDF, true
	case ".docx":
		return domain.FormatDocx, true
	}
	return "", false
}

// TargetFromPath guesses a target format for an output path. Unlike source
// detection there is no document to inspect, so the generic extensions fall
// back to openapi3, the canonical hub format.
func TargetFromPath(path string) (domain.Format, bool) {
	if f, ok := fromHint(path); ok {
		return f, true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return domain.FormatOpenAPI3, true
	}
	return "", false
}
