package converters

import (
	"fmt"

	"github.com/specconv/specconv/internal/domain"
)

// SwaggerToOpenAPI3 converts a Swagger 2.0 specification into OpenAPI 3.0:
// host/basePath/schemes recombine into a single server URL, in:body and
// formData parameters become a requestBody, response schemas move under a
// content map, and definitions become components.schemas with $refs
// rewritten.
type SwaggerToOpenAPI3 struct{}

// NewSwaggerToOpenAPI3 creates the Swagger 2 to OpenAPI 3 converter.
func NewSwaggerToOpenAPI3() *SwaggerToOpenAPI3 {
	return &SwaggerToOpenAPI3{}
}

// Source returns the source format.
func (c *SwaggerToOpenAPI3) Source() domain.Format { return domain.FormatSwagger }

// Target returns the target format.
func (c *SwaggerToOpenAPI3) Target() domain.Format { return domain.FormatOpenAPI3 }

// Convert builds the OpenAPI 3.0 document.
func (c *SwaggerToOpenAPI3) Convert(doc domain.Document, opts domain.Options) (domain.Document, error) {
	if _, ok := doc["swagger"].(string); !ok {
		return nil, fmt.Errorf("%w: document is missing the \"swagger\" version key", domain.ErrMalformedInput)
	}

	out := domain.Document{
		"openapi": "3.0.3",
		"info":    infoWithOverrides(mapAt(doc, "info"), opts),
		"paths":   map[string]any{},
	}

	if len(opts.Servers) > 0 {
		servers := make([]any, 0, len(opts.Servers))
		for _, u := range opts.Servers {
			servers = append(servers, map[string]any{"url": u})
		}
		out["servers"] = servers
	} else if serverURL := joinServerURL(doc); serverURL != "" {
		out["servers"] = []any{map[string]any{"url": serverURL}}
	}

	defaultConsumes := firstString(sliceAt(doc, "consumes"), "application/json")
	defaultProduces := firstString(sliceAt(doc, "produces"), "application/json")

	paths := mapAt(out, "paths")
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
			outItem[method] = convertOperationToOAS3(op, defaultConsumes, defaultProduces)
		}
		paths[path] = outItem
	}

	components := map[string]any{}
	if definitions := mapAt(doc, "definitions"); len(definitions) > 0 {
		schemas := make(map[string]any, len(definitions))
		for name, schema := range definitions {
			schemas[name] = rewriteRefsDeep(schema, swaggerToOAS3Refs)
		}
		components["schemas"] = schemas
	}
	if securityDefs := mapAt(doc, "securityDefinitions"); len(securityDefs) > 0 {
		schemes := make(map[string]any, len(securityDefs))
		for name, def := range securityDefs {
			defMap, ok := def.(map[string]any)
			if !ok {
				continue
			}
			schemes[name] = convertSecurityScheme(defMap)
		}
		components["securitySchemes"] = schemes
	}
	if len(components) > 0 {
		out["components"] = components
	}

	return out, nil
}

func convertOperationToOAS3(op map[string]any, defaultConsumes, defaultProduces string) map[string]any {
	out := map[string]any{"responses": map[string]any{}}
	for _, key := range []string{"summary", "description", "operationId"} {
		if v := stringAt(op, key); v != "" {
			out[key] = v
		}
	}
	if tags := sliceAt(op, "tags"); len(tags) > 0 {
		out["tags"] = rewriteRefsDeep(tags, nil)
	}

	consumes := firstString(sliceAt(op, "consumes"), defaultConsumes)
	produces := firstString(sliceAt(op, "produces"), defaultProduces)

	var params []any
	var formProps map[string]any
	for _, p := range sliceAt(op, "parameters") {
		param, ok := p.(map[string]any)
		if !ok {
			continue
		}
		switch stringAt(param, "in") {
		case "body":
			out["requestBody"] = map[string]any{
				"required": boolAt(param, "required", false),
				"content": map[string]any{
					consumes: map[string]any{
						"schema": rewriteRefsDeep(mapAt(param, "schema"), swaggerToOAS3Refs),
					},
				},
			}
		case "formData":
			if formProps == nil {
				formProps = map[string]any{}
			}
			prop := map[string]any{"type": stringAt(param, "type")}
			if prop["type"] == "" {
				prop["type"] = "string"
			}
			formProps[stringAt(param, "name")] = prop
		default:
			params = append(params, liftParameterSchema(param))
		}
	}
	if formProps != nil {
		if _, exists := out["requestBody"]; !exists {
			out["requestBody"] = map[string]any{
				"content": map[string]any{
					"application/x-www-form-urlencoded": map[string]any{
						"schema": map[string]any{"type": "object", "properties": formProps},
					},
				},
			}
		}
	}
	if len(params) > 0 {
		out["parameters"] = params
	}

	responses := mapAt(out, "responses")
	for status, respVal := range mapAt(op, "responses") {
		resp, ok := respVal.(map[string]any)
		if !ok {
			continue
		}
		outResp := map[string]any{"description": stringAt(resp, "description")}
		if schema := mapAt(resp, "schema"); schema != nil {
			outResp["content"] = map[string]any{
				produces: map[string]any{
					"schema": rewriteRefsDeep(schema, swaggerToOAS3Refs),
				},
			}
		}
		responses[status] = outResp
	}

	return out
}

// liftParameterSchema converts a Swagger 2 parameter with inline type and
// format into the OpenAPI 3 shape with a nested schema object.
func liftParameterSchema(param map[string]any) map[string]any {
	out := make(map[string]any, len(param))
	schema := map[string]any{}
	for key, val := range param {
		switch key {
		case "type", "format", "default", "enum", "items":
			schema[key] = rewriteRefsDeep(val, swaggerToOAS3Refs)
		case "schema":
			if ref := stringAt(mapAt(param, "schema"), "$ref"); ref != "" {
				schema["$ref"] = rewriteRef(ref, swaggerToOAS3Refs)
			} else {
				schema = copyMap(mapAt(param, "schema"))
			}
		case "x-example":
			schema["example"] = val
		default:
			out[key] = rewriteRefsDeep(val, nil)
		}
	}
	if len(schema) == 0 {
		schema["type"] = "string"
	}
	out["schema"] = schema
	return out
}

// convertSecurityScheme maps a Swagger 2 security definition onto the
// OpenAPI 3 securityScheme shape.
func convertSecurityScheme(def map[string]any) map[string]any {
	switch stringAt(def, "type") {
	case "basic":
		return map[string]any{"type": "http", "scheme": "basic"}
	case "apiKey":
		return map[string]any{
			"type": "apiKey",
			"name": stringAt(def, "name"),
			"in":   stringAt(def, "in"),
		}
	case "oauth2":
		flow := map[string]any{"scopes": valueOr(def["scopes"], map[string]any{})}
		if v := stringAt(def, "authorizationUrl"); v != "" {
			flow["authorizationUrl"] = v
		}
		if v := stringAt(def, "tokenUrl"); v != "" {
			flow["tokenUrl"] = v
		}
		flowName := map[string]string{
			"implicit":    "implicit",
			"password":    "password",
			"application": "clientCredentials",
			"accessCode":  "authorizationCode",
		}[stringAt(def, "flow")]
		if flowName == "" {
			flowName = "implicit"
		}
		return map[string]any{
			"type":  "oauth2",
			"flows": map[string]any{flowName: flow},
		}
	default:
		return copyMap(def)
	}
}

func valueOr(v any, def any) any {
	if v == nil {
		return def
	}
	return v
}

// firstString returns the first string element of a slice, or def.
func firstString(values []any, def string) string {
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}
