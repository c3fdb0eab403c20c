package converters

import (
	"fmt"

	"github.com/specconv/specconv/internal/domain"
)

// PostmanToOpenAPI3 converts a Postman collection into an OpenAPI 3
// specification by composing the Postman to HAR and HAR to OpenAPI 3
// converters.
type PostmanToOpenAPI3 struct {
	toHAR     *PostmanToHAR
	toOpenAPI *HARToOpenAPI3
}

// NewPostmanToOpenAPI3 creates the Postman to OpenAPI 3 converter.
func NewPostmanToOpenAPI3() *PostmanToOpenAPI3 {
	return &PostmanToOpenAPI3{
		toHAR:     NewPostmanToHAR(),
		toOpenAPI: NewHARToOpenAPI3(),
	}
}

// Source returns the source format.
func (c *PostmanToOpenAPI3) Source() domain.Format { return domain.FormatPostman }

// Target returns the target format.
func (c *PostmanToOpenAPI3) Target() domain.Format { return domain.FormatOpenAPI3 }

// Convert builds the OpenAPI 3 document from the collection. Options are
// applied by the HAR stage; the intermediate HAR document is discarded.
func (c *PostmanToOpenAPI3) Convert(doc domain.Document, opts domain.Options) (domain.Document, error) {
	har, err := c.toHAR.Convert(doc, opts)
	if err != nil {
		return nil, err
	}
	out, err := c.toOpenAPI.Convert(har, opts)
	if err != nil {
		return nil, fmt.Errorf("converting intermediate archive: %w", err)
	}
	if title := stringAt(mapAt(doc, "info"), "name"); title != "" && opts.Title == "" {
		mapAt(out, "info")["title"] = title
	}
	return out, nil
}
