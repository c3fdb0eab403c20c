// Package domain provides the core models and interfaces for the specification converter.
package domain

import "strings"

// Format identifies one of the supported document formats.
type Format string

const (
	// FormatHAR is the HTTP Archive capture format.
	FormatHAR Format = "har"
	// FormatOpenAPI3 is the OpenAPI 3.0 specification format.
	FormatOpenAPI3 Format = "openapi3"
	// FormatSwagger is the Swagger 2.0 (OpenAPI 2) specification format.
	FormatSwagger Format = "swagger"
	// FormatPostman is the Postman collection format.
	FormatPostman Format = "postman"
	// FormatHoppscotch is the Hoppscotch collection format.
	FormatHoppscotch Format = "hoppscotch"
	// FormatPDF is the PDF documentation rendering target.
	FormatPDF Format = "pdf"
	// FormatDocx is the Word (DOCX) documentation rendering target.
	FormatDocx Format = "docx"
)

// FormatInfo describes a format: its canonical file extensions, the name of
// the bundled JSON Schema that validates it (empty for rendering targets),
// and a human-readable description.
type FormatInfo struct {
	Extensions  []string
	SchemaName  string
	Description string
}

var formatInfos = map[Format]FormatInfo{
	FormatHAR: {
		Extensions:  []string{".har"},
		SchemaName:  "har",
		Description: "HTTP Archive capture",
	},
	FormatOpenAPI3: {
		Extensions:  []string{".json", ".yaml", ".yml"},
		SchemaName:  "openapi3",
		Description: "OpenAPI 3.0 specification",
	},
	FormatSwagger: {
		Extensions:  []string{".json", ".yaml", ".yml"},
		SchemaName:  "swagger",
		Description: "Swagger 2.0 specification",
	},
	FormatPostman: {
		Extensions:  []string{".postman_collection.json", ".json"},
		SchemaName:  "postman",
		Description: "Postman collection",
	},
	FormatHoppscotch: {
		Extensions:  []string{".json"},
		SchemaName:  "hoppscotch",
		Description: "Hoppscotch collection",
	},
	FormatPDF: {
		Extensions:  []string{".pdf"},
		Description: "PDF API documentation",
	},
	FormatDocx: {
		Extensions:  []string{".docx"},
		Description: "Word (DOCX) API documentation",
	},
}

// Info returns the descriptor for the format. The zero FormatInfo is
// returned for unknown formats.
func (f Format) Info() FormatInfo {
	return formatInfos[f]
}

// IsSpec reports whether the format is a specification format with a
// bundled JSON Schema, as opposed to a rendering-only target.
func (f Format) IsSpec() bool {
	return formatInfos[f].SchemaName != ""
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// ParseFormat resolves a format name to a Format. Matching is
// case-insensitive; "openapi" and "oas3" are accepted aliases for openapi3,
// and "swagger2" for swagger.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "har":
		return FormatHAR, true
	case "openapi3", "openapi", "oas3":
		return FormatOpenAPI3, true
	case "swagger", "swagger2", "oas2":
		return FormatSwagger, true
	case "postman":
		return FormatPostman, true
	case "hoppscotch":
		return FormatHoppscotch, true
	case "pdf":
		return FormatPDF, true
	case "docx", "word":
		return FormatDocx, true
	}
	return "", false
}

// Formats returns all known formats in a stable order.
func Formats() []Format {
	return []Format{
		FormatHAR,
		FormatOpenAPI3,
		FormatSwagger,
		FormatPostman,
		FormatHoppscotch,
		FormatPDF,
		FormatDocx,
	}
}
