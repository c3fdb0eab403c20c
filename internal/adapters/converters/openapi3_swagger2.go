package converters

import (
	"fmt"
	"net/url"

	"github.com/specconv/specconv/internal/domain"
)

// OpenAPI3ToSwagger converts an OpenAPI 3.0 specification into Swagger 2.0:
// servers[0].url is split into host/basePath/schemes, requestBody content
// collapses into an in:body parameter for the first JSON-compatible media
// type, and components.schemas become top-level definitions with all local
// $ref pointers rewritten.
type OpenAPI3ToSwagger struct{}

// NewOpenAPI3ToSwagger creates the OpenAPI 3 to Swagger 2 converter.
func NewOpenAPI3ToSwagger() *OpenAPI3ToSwagger {
	return &OpenAPI3ToSwagger{}
}

// Source returns the source format.
func (c *OpenAPI3ToSwagger) Source() domain.Format { return domain.FormatOpenAPI3 }

// Target returns the target format.
func (c *OpenAPI3ToSwagger) Target() domain.Format { return domain.FormatSwagger }

// Convert builds the Swagger 2.0 document.
func (c *OpenAPI3ToSwagger) Convert(doc domain.Document, opts domain.Options) (domain.Document, error) {
	if _, ok := doc["openapi"].(string); !ok {
		return nil, fmt.Errorf("%w: document is missing the \"openapi\" version key", domain.ErrMalformedInput)
	}

	swagger := domain.Document{
		"swagger":     "2.0",
		"info":        infoWithOverrides(mapAt(doc, "info"), opts),
		"paths":       map[string]any{},
		"definitions": map[string]any{},
	}

	if host, basePath, schemes, ok := splitServerURL(firstServerURL(doc)); ok {
		swagger["host"] = host
		swagger["basePath"] = basePath
		if len(schemes) > 0 {
			swagger["schemes"] = schemes
		}
	}

	paths := mapAt(swagger, "paths")
	for path, itemVal := range mapAt(doc, "paths") {
		item, ok := itemVal.(map[string]any)
		if !ok {
			continue
		}
		outItem := make(map[string]any, len(item))
		for method, opVal := range item {
			op, ok := opVal.(map[string]any)
			if !ok {
				continue
			}
			outItem[method] = convertOperationToSwagger(op)
		}
		paths[path] = outItem
	}

	definitions := mapAt(swagger, "definitions")
	for name, schema := range mapAt(mapAt(doc, "components"), "schemas") {
		definitions[name] = rewriteRefsDeep(schema, oas3ToSwaggerRefs)
	}

	return swagger, nil
}

func convertOperationToSwagger(op map[string]any) map[string]any {
	out := map[string]any{
		"summary":     stringAt(op, "summary"),
		"description": stringAt(op, "description"),
		"operationId": stringAt(op, "operationId"),
		"responses":   map[string]any{},
	}
	if tags := sliceAt(op, "tags"); len(tags) > 0 {
		out["tags"] = rewriteRefsDeep(tags, nil)
	}

	var params []any
	for _, p := range sliceAt(op, "parameters") {
		param, ok := p.(map[string]any)
		if !ok {
			continue
		}
		params = append(params, flattenParameterSchema(param))
	}

	var consumes []any
	if body := mapAt(op, "requestBody"); body != nil {
		for mime := range mapAt(body, "content") {
			consumes = append(consumes, mime)
		}
		if _, media := firstJSONContent(mapAt(body, "content")); media != nil {
			params = append(params, map[string]any{
				"name":     "body",
				"in":       "body",
				"required": boolAt(body, "required", false),
				"schema":   rewriteRefsDeep(mapAt(media, "schema"), oas3ToSwaggerRefs),
			})
		}
	}
	if len(params) > 0 {
		out["parameters"] = params
	}
	if len(consumes) > 0 {
		out["consumes"] = consumes
	}

	var produces []any
	seenProduces := make(map[string]bool)
	responses := mapAt(out, "responses")
	for status, respVal := range mapAt(op, "responses") {
		resp, ok := respVal.(map[string]any)
		if !ok {
			continue
		}
		outResp := map[string]any{"description": stringAt(resp, "description")}
		if _, media := firstJSONContent(mapAt(resp, "content")); media != nil {
			outResp["schema"] = rewriteRefsDeep(mapAt(media, "schema"), oas3ToSwaggerRefs)
		}
		for mime := range mapAt(resp, "content") {
			if !seenProduces[mime] {
				seenProduces[mime] = true
				produces = append(produces, mime)
			}
		}
		responses[status] = outResp
	}
	if len(produces) > 0 {
		out["produces"] = produces
	}

	return out
}

// flattenParameterSchema converts an OpenAPI 3 parameter (schema object)
// into the Swagger 2 shape (inline type/format, or a schema for refs).
func flattenParameterSchema(param map[string]any) map[string]any {
	out := make(map[string]any, len(param))
	for key, val := range param {
		if key == "schema" {
			continue
		}
		out[key] = rewriteRefsDeep(val, nil)
	}

	schema := mapAt(param, "schema")
	if schema == nil {
		return out
	}
	if ref := stringAt(schema, "$ref"); ref != "" {
		out["schema"] = map[string]any{"$ref": rewriteRef(ref, oas3ToSwaggerRefs)}
		return out
	}

	if t := stringAt(schema, "type"); t != "" {
		out["type"] = t
	} else {
		out["type"] = "string"
	}
	if format := stringAt(schema, "format"); format != "" {
		out["format"] = format
	}
	if example, ok := schema["example"]; ok {
		out["x-example"] = example
	}
	if def, ok := schema["default"]; ok {
		out["default"] = def
	}
	return out
}

// firstJSONContent picks the first JSON-compatible media type from a
// content map, falling back to any media type when none is JSON.
func firstJSONContent(content map[string]any) (string, map[string]any) {
	var fallbackMime string
	var fallback map[string]any
	for mime, mediaVal := range content {
		media, ok := mediaVal.(map[string]any)
		if !ok {
			continue
		}
		if isJSONMedia(mime) {
			return mime, media
		}
		if fallback == nil {
			fallbackMime, fallback = mime, media
		}
	}
	return fallbackMime, fallback
}

func firstServerURL(doc domain.Document) string {
	servers := sliceAt(doc, "servers")
	if len(servers) == 0 {
		return ""
	}
	server, _ := servers[0].(map[string]any)
	return stringAt(server, "url")
}

// splitServerURL breaks an OpenAPI 3 server URL into the Swagger 2
// host/basePath/schemes triple.
func splitServerURL(serverURL string) (host, basePath string, schemes []any, ok bool) {
	if serverURL == "" {
		return "", "", nil, false
	}
	u, err := url.Parse(serverURL)
	if err != nil || u.Host == "" {
		return "", "", nil, false
	}
	basePath = u.Path
	if basePath == "" {
		basePath = "/"
	}
	if u.Scheme != "" {
		schemes = []any{u.Scheme}
	}
	return u.Host, basePath, schemes, true
}

// infoWithOverrides copies the info object and applies option overrides.
func infoWithOverrides(info map[string]any, opts domain.Options) map[string]any {
	out := copyMap(info)
	if out == nil {
		out = map[string]any{}
	}
	if stringAt(out, "title") == "" {
		out["title"] = "API"
	}
	if stringAt(out, "version") == "" {
		out["version"] = "1.0.0"
	}
	if opts.Title != "" {
		out["title"] = opts.Title
	}
	if opts.Version != "" {
		out["version"] = opts.Version
	}
	if opts.Description != "" {
		out["description"] = opts.Description
	}
	return out
}

// joinServerURL recombines Swagger 2 host/basePath/schemes into a single
// server URL, preferring https when several schemes are declared.
func joinServerURL(doc domain.Document) string {
	host := stringAt(doc, "host")
	if host == "" {
		return ""
	}
	scheme := "https"
	if schemes := sliceAt(doc, "schemes"); len(schemes) > 0 {
		scheme, _ = schemes[0].(string)
		for _, s := range schemes {
			if s == "https" {
				scheme = "https"
			}
		}
	}
	basePath := stringAt(doc, "basePath")
	if basePath == "/" {
		basePath = ""
	}
	return scheme + "://" + host + basePath
}
