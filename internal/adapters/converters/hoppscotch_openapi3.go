package converters

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/specconv/specconv/internal/domain"
)

// HoppscotchToOpenAPI3 converts a Hoppscotch collection into an OpenAPI 3
// specification. The folder tree is flattened recursively, folder names
// become operation tags, and collection/request auth settings map onto
// securitySchemes.
type HoppscotchToOpenAPI3 struct{}

// NewHoppscotchToOpenAPI3 creates the Hoppscotch to OpenAPI 3 converter.
func NewHoppscotchToOpenAPI3() *HoppscotchToOpenAPI3 {
	return &HoppscotchToOpenAPI3{}
}

// Source returns the source format.
func (c *HoppscotchToOpenAPI3) Source() domain.Format { return domain.FormatHoppscotch }

// Target returns the target format.
func (c *HoppscotchToOpenAPI3) Target() domain.Format { return domain.FormatOpenAPI3 }

// Convert builds the OpenAPI 3 document from the collection.
func (c *HoppscotchToOpenAPI3) Convert(doc domain.Document, opts domain.Options) (domain.Document, error) {
	if _, ok := doc["v"]; !ok {
		return nil, fmt.Errorf("%w: hoppscotch collection is missing the \"v\" version key", domain.ErrMalformedInput)
	}
	if _, ok := doc["requests"]; !ok {
		return nil, fmt.Errorf("%w: hoppscotch collection is missing the \"requests\" array", domain.ErrMalformedInput)
	}

	b := &hoppBuilder{
		opts:            opts,
		paths:           map[string]any{},
		securitySchemes: map[string]any{},
	}

	b.collectionAuth(mapAt(doc, "auth"))
	b.walk(doc, "")

	title := stringAt(doc, "name")
	if title == "" {
		title = "API"
	}

	info := map[string]any{
		"title":       title,
		"version":     "1.0.0",
		"description": "",
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

	out := domain.Document{
		"openapi": "3.0.0",
		"info":    info,
		"paths":   b.paths,
	}
	if len(opts.Servers) > 0 {
		servers := make([]any, 0, len(opts.Servers))
		for _, u := range opts.Servers {
			servers = append(servers, map[string]any{"url": u})
		}
		out["servers"] = servers
	}
	if len(b.securitySchemes) > 0 {
		out["components"] = map[string]any{"securitySchemes": b.securitySchemes}
	}
	return out, nil
}

type hoppBuilder struct {
	opts            domain.Options
	paths           map[string]any
	securitySchemes map[string]any
}

// walk flattens one collection level: its requests first, then nested
// folders with the folder names joined into the operation tag.
func (b *hoppBuilder) walk(node map[string]any, tag string) {
	for _, r := range sliceAt(node, "requests") {
		request, ok := r.(map[string]any)
		if !ok {
			continue
		}
		b.addRequest(request, tag)
	}
	for _, f := range sliceAt(node, "folders") {
		folder, ok := f.(map[string]any)
		if !ok {
			continue
		}
		childTag := stringAt(folder, "name")
		if tag != "" {
			childTag = tag + "/" + childTag
		}
		b.walk(folder, childTag)
	}
}

func (b *hoppBuilder) addRequest(request map[string]any, tag string) {
	endpoint := stringAt(request, "endpoint")
	if endpoint == "" {
		return
	}
	method := strings.ToLower(stringAt(request, "method"))
	if method == "" {
		method = "get"
	}

	path, pathParams := hoppscotchPath(endpoint)

	operation := map[string]any{
		"summary":     stringAt(request, "name"),
		"operationId": operationID(method, path),
		"responses":   b.requestResponses(request),
	}
	if tag != "" {
		operation["tags"] = []any{tag}
	}

	var params []any
	for _, name := range pathParams {
		params = append(params, map[string]any{
			"name":     name,
			"in":       "path",
			"required": true,
			"schema":   map[string]any{"type": "string"},
		})
	}
	params = append(params, b.keyValueParams(sliceAt(request, "params"), "query")...)
	params = append(params, b.keyValueParams(sliceAt(request, "headers"), "header")...)
	if len(params) > 0 {
		operation["parameters"] = params
	}

	if body := b.requestBody(request, method); body != nil {
		operation["requestBody"] = body
	}

	b.requestAuth(request, operation)

	item, ok := b.paths[path].(map[string]any)
	if !ok {
		item = map[string]any{}
		b.paths[path] = item
	}
	item[method] = operation
}

// keyValueParams maps Hoppscotch key/value entries (query params or
// headers) onto OpenAPI parameters, skipping inactive and unnamed entries.
func (b *hoppBuilder) keyValueParams(entries []any, in string) []any {
	var out []any
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		key := stringAt(entry, "key")
		if key == "" || !boolAt(entry, "active", true) {
			continue
		}
		if in == "header" {
			lower := strings.ToLower(key)
			if b.opts.SkipAuth && authHeaders[lower] {
				continue
			}
			if noiseHeaders[lower] {
				continue
			}
		}
		out = append(out, map[string]any{
			"name":     key,
			"in":       in,
			"required": boolAt(entry, "required", false),
			"schema": map[string]any{
				"type":    "string",
				"default": stringAt(entry, "value"),
			},
		})
	}
	return out
}

func (b *hoppBuilder) requestBody(request map[string]any, method string) map[string]any {
	body := mapAt(request, "body")
	if len(body) == 0 {
		return nil
	}
	if method != "post" && method != "put" && method != "patch" {
		return nil
	}

	contentType := stringAt(body, "contentType")
	content := map[string]any{}

	switch contentType {
	case "application/json":
		raw := stringAt(body, "body")
		if raw == "" {
			break
		}
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			content[contentType] = map[string]any{"schema": inferSchema(payload)}
		} else {
			content[contentType] = map[string]any{
				"schema": map[string]any{"type": "string", "example": raw},
			}
		}
	case "multipart/form-data", "application/x-www-form-urlencoded":
		properties := map[string]any{}
		for _, e := range sliceAt(body, "body") {
			entry, ok := e.(map[string]any)
			if !ok {
				continue
			}
			key := stringAt(entry, "key")
			if key == "" || !boolAt(entry, "active", true) {
				continue
			}
			properties[key] = map[string]any{
				"type":    "string",
				"example": stringAt(entry, "value"),
			}
		}
		if len(properties) > 0 {
			content[contentType] = map[string]any{
				"schema": map[string]any{"type": "object", "properties": properties},
			}
		}
	case "":
	default:
		content[contentType] = map[string]any{
			"schema": map[string]any{"type": "string", "example": stringAt(body, "body")},
		}
	}

	if len(content) == 0 {
		return nil
	}
	return map[string]any{"content": content}
}

// requestResponses maps saved example responses when the request carries
// them; otherwise a generic 200 is synthesized, since a collection entry
// records no observed exchange.
func (b *hoppBuilder) requestResponses(request map[string]any) map[string]any {
	responses := map[string]any{}
	for _, r := range sliceAt(request, "responses") {
		example, ok := r.(map[string]any)
		if !ok {
			continue
		}
		status, ok := intAt(example, "code")
		if !ok {
			status, ok = intAt(example, "status")
		}
		if !ok || status == 0 {
			continue
		}
		description := stringAt(example, "name")
		if description == "" {
			description = http.StatusText(status)
		}
		if description == "" {
			description = "Response"
		}
		entry := map[string]any{"description": description}
		if raw := stringAt(example, "body"); raw != "" {
			var payload any
			if err := json.Unmarshal([]byte(raw), &payload); err == nil {
				entry["content"] = map[string]any{
					"application/json": map[string]any{"schema": inferSchema(payload)},
				}
			}
		}
		responses[strconv.Itoa(status)] = entry
	}
	if len(responses) == 0 {
		responses["200"] = map[string]any{"description": "Successful response"}
	}
	return responses
}

// collectionAuth maps collection-level auth onto securitySchemes.
func (b *hoppBuilder) collectionAuth(auth map[string]any) {
	b.addAuthScheme(auth)
}

// requestAuth maps request-level auth onto securitySchemes and attaches a
// security requirement to the operation.
func (b *hoppBuilder) requestAuth(request map[string]any, operation map[string]any) {
	auth := mapAt(request, "auth")
	if !boolAt(auth, "authActive", false) {
		return
	}
	name := b.addAuthScheme(auth)
	if name != "" {
		operation["security"] = []any{map[string]any{name: []any{}}}
	}
}

// addAuthScheme registers the security scheme for an auth block and returns
// its name; "", none and inherit register nothing.
func (b *hoppBuilder) addAuthScheme(auth map[string]any) string {
	switch stringAt(auth, "authType") {
	case "basic":
		b.securitySchemes["basicAuth"] = map[string]any{"type": "http", "scheme": "basic"}
		return "basicAuth"
	case "bearer":
		b.securitySchemes["bearerAuth"] = map[string]any{"type": "http", "scheme": "bearer"}
		return "bearerAuth"
	case "oauth-2":
		b.securitySchemes["oauth2"] = map[string]any{
			"type":  "oauth2",
			"flows": oauth2Flows(mapAt(auth, "grantTypeInfo")),
		}
		return "oauth2"
	case "api-key":
		key := stringAt(auth, "key")
		if key == "" {
			key = "api_key"
		}
		in := "header"
		if stringAt(auth, "addTo") == "QUERY_PARAMS" {
			in = "query"
		}
		b.securitySchemes[key] = map[string]any{"type": "apiKey", "name": key, "in": in}
		return key
	}
	return ""
}

func oauth2Flows(info map[string]any) map[string]any {
	scopes := map[string]any{}
	for _, scope := range strings.Fields(stringAt(info, "scopes")) {
		scopes[scope] = ""
	}

	flows := map[string]any{}
	switch stringAt(info, "grantType") {
	case "AUTHORIZATION_CODE":
		flows["authorizationCode"] = map[string]any{
			"authorizationUrl": stringAt(info, "authUrl"),
			"tokenUrl":         stringAt(info, "tokenUrl"),
			"scopes":           scopes,
		}
	case "CLIENT_CREDENTIALS":
		flows["clientCredentials"] = map[string]any{
			"tokenUrl": stringAt(info, "tokenUrl"),
			"scopes":   scopes,
		}
	case "PASSWORD":
		flows["password"] = map[string]any{
			"tokenUrl": stringAt(info, "tokenUrl"),
			"scopes":   scopes,
		}
	default:
		flows["implicit"] = map[string]any{
			"authorizationUrl": stringAt(info, "authUrl"),
			"scopes":           scopes,
		}
	}
	return flows
}

// hoppscotchPath extracts the path template from a request endpoint.
// ":param" and "{param}" segments become declared path parameters, and
// concrete identifier segments are abstracted the same way HAR URLs are.
func hoppscotchPath(endpoint string) (string, []string) {
	raw := endpoint
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[:i]
	}

	path := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		path = u.Path
		if path == "" {
			path = "/"
		}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	var params []string
	for i, segment := range segments {
		switch {
		case strings.HasPrefix(segment, ":"):
			name := segment[1:]
			segments[i] = "{" + name + "}"
			params = append(params, name)
		case strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}"):
			params = append(params, strings.Trim(segment, "{}"))
		}
	}
	rebuilt := "/" + strings.Join(segments, "/")

	template, inferred := templatePath(rebuilt)
	return template, append(params, inferred...)
}
