package converters

import (
	"fmt"

	"github.com/specconv/specconv/internal/domain"
)

// OpenAPI3Passthrough copies an OpenAPI 3 document unchanged except for
// the metadata overrides carried in the options. It exists so openapi3 is
// a valid target for openapi3 input, which callers use to retitle a spec
// or rewrite its servers without a format change.
type OpenAPI3Passthrough struct{}

// NewOpenAPI3Passthrough creates the OpenAPI 3 passthrough converter.
func NewOpenAPI3Passthrough() *OpenAPI3Passthrough {
	return &OpenAPI3Passthrough{}
}

// Source returns the source format.
func (c *OpenAPI3Passthrough) Source() domain.Format { return domain.FormatOpenAPI3 }

// Target returns the target format.
func (c *OpenAPI3Passthrough) Target() domain.Format { return domain.FormatOpenAPI3 }

// Convert deep copies the document and applies metadata overrides.
func (c *OpenAPI3Passthrough) Convert(doc domain.Document, opts domain.Options) (domain.Document, error) {
	if _, ok := doc["openapi"]; !ok {
		return nil, fmt.Errorf("%w: document is missing the \"openapi\" version key", domain.ErrMalformedInput)
	}

	out := domain.CloneDocument(doc)

	info, ok := out["info"].(map[string]any)
	if !ok {
		info = map[string]any{}
		out["info"] = info
	}
	if opts.Title != "" {
		info["title"] = opts.Title
	}
	if opts.Version != "" {
		info["version"] = opts.Version
	}
	if opts.Description != "" {
		info["description"] = opts.Description
	}
	if len(opts.Servers) > 0 {
		servers := make([]any, 0, len(opts.Servers))
		for _, u := range opts.Servers {
			servers = append(servers, map[string]any{"url": u})
		}
		out["servers"] = servers
	}
	return out, nil
}
