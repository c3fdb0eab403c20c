package converters

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/specconv/specconv/internal/domain"
)

// DocxRenderer renders an OpenAPI 3 document as a Word document.
type DocxRenderer struct{}

// NewDocxRenderer creates the DOCX renderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// Source returns the source format.
func (r *DocxRenderer) Source() domain.Format { return domain.FormatOpenAPI3 }

// Target returns the target format.
func (r *DocxRenderer) Target() domain.Format { return domain.FormatDocx }

// Render writes the Word document to w.
func (r *DocxRenderer) Render(doc domain.Document, w io.Writer) error {
	if _, ok := doc["openapi"]; !ok {
		return fmt.Errorf("%w: document is missing the \"openapi\" version key", domain.ErrMalformedInput)
	}

	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	r.addTitle(document, doc)
	r.addDescription(document, doc)
	r.addServers(document, doc)
	r.addPaths(document, doc)

	if err := document.Write(w); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func (r *DocxRenderer) addTitle(document *docx.RootDoc, doc domain.Document) {
	info := mapAt(doc, "info")
	title := stringAt(info, "title")
	if title == "" {
		title = "API"
	}

	_, _ = document.AddHeading(title, 0) // Level 0 = Title style
	if version := stringAt(info, "version"); version != "" {
		document.AddParagraph(fmt.Sprintf("Version: %s", version))
	}
	document.AddEmptyParagraph()
}

func (r *DocxRenderer) addDescription(document *docx.RootDoc, doc domain.Document) {
	desc := stringAt(mapAt(doc, "info"), "description")
	if desc == "" {
		return
	}

	_, _ = document.AddHeading("Description", 1)
	document.AddParagraph(stripHTML(desc))
	document.AddEmptyParagraph()
}

func (r *DocxRenderer) addServers(document *docx.RootDoc, doc domain.Document) {
	servers := sliceAt(doc, "servers")
	if len(servers) == 0 {
		return
	}

	_, _ = document.AddHeading("Servers", 1)

	for _, s := range servers {
		server, ok := s.(map[string]any)
		if !ok {
			continue
		}
		text := stringAt(server, "url")
		if desc := stringAt(server, "description"); desc != "" {
			text = fmt.Sprintf("%s - %s", text, desc)
		}
		document.AddParagraph(fmt.Sprintf("• %s", text))
	}

	document.AddEmptyParagraph()
}

func (r *DocxRenderer) addPaths(document *docx.RootDoc, doc domain.Document) {
	paths := mapAt(doc, "paths")
	if len(paths) == 0 {
		return
	}

	_, _ = document.AddHeading("API Endpoints", 1)

	for _, path := range sortedKeys(paths) {
		item, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range sortedKeys(item) {
			operation, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			r.addOperation(document, path, strings.ToUpper(method), operation)
		}
	}
}

func (r *DocxRenderer) addOperation(document *docx.RootDoc, path, method string, operation map[string]any) {
	_, _ = document.AddHeading(fmt.Sprintf("%s %s", method, path), 2)

	if summary := stringAt(operation, "summary"); summary != "" {
		document.AddParagraph(summary)
	}
	if desc := stringAt(operation, "description"); desc != "" {
		document.AddParagraph(stripHTML(desc))
	}

	if params := sliceAt(operation, "parameters"); len(params) > 0 {
		_, _ = document.AddHeading("Parameters", 3)

		for _, p := range params {
			param, ok := p.(map[string]any)
			if !ok {
				continue
			}
			required := ""
			if boolAt(param, "required", false) {
				required = " (required)"
			}
			label := schemaLabel(mapAt(param, "schema"))
			document.AddParagraph(fmt.Sprintf("• %s (%s): %s%s", stringAt(param, "name"), stringAt(param, "in"), label, required))
		}
	}

	if responses := mapAt(operation, "responses"); len(responses) > 0 {
		_, _ = document.AddHeading("Responses", 3)

		for _, status := range sortedKeys(responses) {
			response, ok := responses[status].(map[string]any)
			if !ok {
				continue
			}
			document.AddParagraph(fmt.Sprintf("• %s: %s", status, stringAt(response, "description")))
		}
	}

	document.AddEmptyParagraph()
}
