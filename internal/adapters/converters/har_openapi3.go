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

// Request headers that never become parameters: transport noise captured by
// browsers rather than part of the API contract.
var noiseHeaders = map[string]bool{
	"host":            true,
	"user-agent":      true,
	"accept":          true,
	"content-length":  true,
	"content-type":    true,
	"connection":      true,
	"cookie":          true,
	"accept-encoding": true,
	"accept-language": true,
}

// Headers additionally suppressed when Options.SkipAuth is set.
var authHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"x-api-key":           true,
	"cookie":              true,
}

// HARToOpenAPI3 converts an HTTP Archive capture into an OpenAPI 3
// specification: URLs become path templates, observed query strings and
// headers become parameters, and JSON bodies are turned into inferred
// component schemas.
type HARToOpenAPI3 struct{}

// NewHARToOpenAPI3 creates the HAR to OpenAPI 3 converter.
func NewHARToOpenAPI3() *HARToOpenAPI3 {
	return &HARToOpenAPI3{}
}

// Source returns the source format.
func (c *HARToOpenAPI3) Source() domain.Format { return domain.FormatHAR }

// Target returns the target format.
func (c *HARToOpenAPI3) Target() domain.Format { return domain.FormatOpenAPI3 }

// Convert builds the OpenAPI 3 document from the HAR capture.
func (c *HARToOpenAPI3) Convert(doc domain.Document, opts domain.Options) (domain.Document, error) {
	log, ok := doc["log"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: har document is missing the \"log\" object", domain.ErrMalformedInput)
	}
	entriesVal, present := log["entries"]
	if !present {
		return nil, fmt.Errorf("%w: har log is missing the \"entries\" array", domain.ErrMalformedInput)
	}
	entries, ok := entriesVal.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: har \"log.entries\" is not an array", domain.ErrMalformedInput)
	}

	b := newHARBuilder(opts)
	for _, entryVal := range entries {
		entry, ok := entryVal.(map[string]any)
		if !ok {
			continue
		}
		b.addEntry(entry)
	}

	return b.spec(), nil
}

// harBuilder accumulates the generated paths and component schemas while
// HAR entries are folded in one by one.
type harBuilder struct {
	opts domain.Options

	paths     map[string]map[string]map[string]any // template -> method -> operation
	schemas   map[string]any                       // component name -> schema
	byShape   map[string]string                    // canonical schema -> first-registered name
	usedNames map[string]bool

	firstOrigin string // scheme://host of the first entry, for the server fallback
}

func newHARBuilder(opts domain.Options) *harBuilder {
	return &harBuilder{
		opts:      opts,
		paths:     make(map[string]map[string]map[string]any),
		schemas:   make(map[string]any),
		byShape:   make(map[string]string),
		usedNames: make(map[string]bool),
	}
}

func (b *harBuilder) addEntry(entry map[string]any) {
	request := mapAt(entry, "request")
	response := mapAt(entry, "response")

	method := strings.ToLower(stringAt(request, "method"))
	rawURL := stringAt(request, "url")
	if method == "" || rawURL == "" {
		return
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	if b.firstOrigin == "" && parsed.Scheme != "" && parsed.Host != "" {
		b.firstOrigin = parsed.Scheme + "://" + parsed.Host
	}

	template, pathParams := templatePath(parsed.Path)

	methods, ok := b.paths[template]
	if !ok {
		methods = make(map[string]map[string]any)
		b.paths[template] = methods
	}

	op, exists := methods[method]
	if !exists {
		op = map[string]any{
			"summary":     strings.ToUpper(method) + " " + template,
			"operationId": operationID(method, template),
			"responses":   map[string]any{},
		}
		methods[method] = op
	}

	b.mergeParameters(op, pathParams, request, parsed)
	b.mergeRequestBody(op, method, template, request)
	b.mergeResponse(op, method, template, response)
}

// mergeParameters folds path, query and header parameters into the
// operation, keyed by (name, in) so repeated entries augment rather than
// duplicate.
func (b *harBuilder) mergeParameters(op map[string]any, pathParams []string, request map[string]any, parsed *url.URL) {
	existing, _ := op["parameters"].([]any)
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		param, _ := p.(map[string]any)
		seen[stringAt(param, "in")+":"+stringAt(param, "name")] = true
	}

	add := func(param map[string]any) {
		key := stringAt(param, "in") + ":" + stringAt(param, "name")
		if seen[key] {
			return
		}
		seen[key] = true
		existing = append(existing, param)
	}

	for _, name := range pathParams {
		add(map[string]any{
			"name":     name,
			"in":       "path",
			"required": true,
			"schema":   map[string]any{"type": "string"},
		})
	}

	for _, q := range queryPairs(request, parsed) {
		add(map[string]any{
			"name":     q[0],
			"in":       "query",
			"required": true,
			"schema":   map[string]any{"type": "string", "example": q[1]},
		})
	}

	for _, h := range sliceAt(request, "headers") {
		header, _ := h.(map[string]any)
		name := stringAt(header, "name")
		lower := strings.ToLower(name)
		if name == "" || noiseHeaders[lower] {
			continue
		}
		if b.opts.SkipAuth && authHeaders[lower] {
			continue
		}
		add(map[string]any{
			"name":     name,
			"in":       "header",
			"required": true,
			"schema":   map[string]any{"type": "string", "example": stringAt(header, "value")},
		})
	}

	if len(existing) > 0 {
		op["parameters"] = existing
	}
}

// queryPairs merges the entry's queryString list with parameters parsed from
// the URL itself, preserving first-seen order and values.
func queryPairs(request map[string]any, parsed *url.URL) [][2]string {
	var pairs [][2]string
	seen := make(map[string]bool)

	for _, q := range sliceAt(request, "queryString") {
		param, _ := q.(map[string]any)
		name := stringAt(param, "name")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		pairs = append(pairs, [2]string{name, stringAt(param, "value")})
	}

	for _, piece := range strings.Split(parsed.RawQuery, "&") {
		if piece == "" {
			continue
		}
		name, value, _ := strings.Cut(piece, "=")
		name, errName := url.QueryUnescape(name)
		if errName != nil || name == "" || seen[name] {
			continue
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		seen[name] = true
		pairs = append(pairs, [2]string{name, value})
	}

	return pairs
}

func (b *harBuilder) mergeRequestBody(op map[string]any, method, template string, request map[string]any) {
	postData := mapAt(request, "postData")
	if len(postData) == 0 {
		return
	}

	mime := mediaTypeOf(stringAt(postData, "mimeType"))
	if mime == "" {
		mime = "application/json"
	}
	text := stringAt(postData, "text")

	var schema map[string]any
	if isJSONMedia(mime) && text != "" {
		var payload any
		if err := json.Unmarshal([]byte(text), &payload); err == nil {
			inferred := inferSchema(payload)
			name := b.registerSchema(schemaBaseName(method, template, "Request"), inferred)
			schema = map[string]any{"$ref": "#/components/schemas/" + name}
		}
	}
	if schema == nil {
		schema = map[string]any{"type": "string", "example": text}
	}

	body, _ := op["requestBody"].(map[string]any)
	if body == nil {
		body = map[string]any{"required": true, "content": map[string]any{}}
		op["requestBody"] = body
	}
	content := mapAt(body, "content")
	if existing := mapAt(content, mime); existing != nil {
		b.mergeContentSchema(existing, schema)
		return
	}
	content[mime] = map[string]any{"schema": schema}
}

func (b *harBuilder) mergeResponse(op map[string]any, method, template string, response map[string]any) {
	status, ok := intAt(response, "status")
	if !ok || status == 0 {
		return
	}
	code := strconv.Itoa(status)

	responses := mapAt(op, "responses")
	entry := mapAt(responses, code)
	if entry == nil {
		entry = map[string]any{"description": responseDescription(response, status)}
		responses[code] = entry
	}

	content := mapAt(response, "content")
	mime := mediaTypeOf(stringAt(content, "mimeType"))
	text := stringAt(content, "text")
	if mime == "" || text == "" {
		return
	}

	var schema map[string]any
	if isJSONMedia(mime) {
		var payload any
		if err := json.Unmarshal([]byte(text), &payload); err == nil {
			inferred := inferSchema(payload)
			name := b.registerSchema(schemaBaseName(method, template, "Response"), inferred)
			schema = map[string]any{"$ref": "#/components/schemas/" + name}
		}
	}
	if schema == nil {
		schema = map[string]any{"type": "string", "example": text}
	}

	entryContent, _ := entry["content"].(map[string]any)
	if entryContent == nil {
		entryContent = map[string]any{}
		entry["content"] = entryContent
	}
	if existing := mapAt(entryContent, mime); existing != nil {
		b.mergeContentSchema(existing, schema)
		return
	}
	entryContent[mime] = map[string]any{"schema": schema}
}

// mergeContentSchema reconciles a newly inferred schema with the one already
// attached to a media type. Referenced component schemas are merged in place
// so the $ref stays stable; conflicting shapes degrade per mergeSchemas.
func (b *harBuilder) mergeContentSchema(media map[string]any, incoming map[string]any) {
	current := mapAt(media, "schema")
	if current == nil {
		media["schema"] = incoming
		return
	}

	currentRef := stringAt(current, "$ref")
	incomingRef := stringAt(incoming, "$ref")
	if currentRef != "" {
		name := strings.TrimPrefix(currentRef, "#/components/schemas/")
		existing, _ := b.schemas[name].(map[string]any)
		var addition map[string]any
		if incomingRef != "" {
			addition, _ = b.schemas[strings.TrimPrefix(incomingRef, "#/components/schemas/")].(map[string]any)
		} else {
			addition = incoming
		}
		b.schemas[name] = mergeSchemas(existing, addition)
		return
	}
	media["schema"] = mergeSchemas(current, incoming)
}

// registerSchema stores an inferred schema under components.schemas,
// reusing the first-registered name for structurally identical schemas.
func (b *harBuilder) registerSchema(base string, schema map[string]any) string {
	shape := canonicalSchema(schema)
	if name, ok := b.byShape[shape]; ok {
		return name
	}
	name := uniqueName(base, b.usedNames)
	b.schemas[name] = schema
	b.byShape[shape] = name
	return name
}

func (b *harBuilder) spec() domain.Document {
	info := map[string]any{
		"title":       "API generated from HAR",
		"version":     "1.0.0",
		"description": "API specification generated from HAR file",
	}
	if b.opts.Title != "" {
		info["title"] = b.opts.Title
	}
	if b.opts.Version != "" {
		info["version"] = b.opts.Version
	}
	if b.opts.Description != "" {
		info["description"] = b.opts.Description
	}

	paths := make(map[string]any, len(b.paths))
	for template, methods := range b.paths {
		item := make(map[string]any, len(methods))
		for method, op := range methods {
			item[method] = op
		}
		paths[template] = item
	}

	spec := domain.Document{
		"openapi": "3.0.0",
		"info":    info,
		"paths":   paths,
	}

	if servers := b.servers(); len(servers) > 0 {
		spec["servers"] = servers
	}
	if len(b.schemas) > 0 {
		spec["components"] = map[string]any{"schemas": b.schemas}
	}
	return spec
}

func (b *harBuilder) servers() []any {
	if len(b.opts.Servers) > 0 {
		servers := make([]any, 0, len(b.opts.Servers))
		for _, u := range b.opts.Servers {
			servers = append(servers, map[string]any{"url": u})
		}
		return servers
	}
	if b.firstOrigin != "" {
		return []any{map[string]any{"url": b.firstOrigin + b.opts.BasePath}}
	}
	return nil
}

// operationID synthesizes an identifier from the method and template path:
// "get" + "/api/users/{id}" becomes "get_api_users_id".
func operationID(method, template string) string {
	suffix := sanitizeIdent(template)
	if suffix == "" {
		return method + "_root"
	}
	return method + "_" + suffix
}

// schemaBaseName builds a component schema name from the operation and the
// body role: get /api/users + Response yields GetApiUsersResponse.
func schemaBaseName(method, template, role string) string {
	return titleWord(strings.ToLower(method)) + pascalWords(template) + role
}

// responseDescription prefers the captured statusText, then the standard
// reason phrase, then a generic label by status class.
func responseDescription(response map[string]any, status int) string {
	if text := stringAt(response, "statusText"); text != "" {
		return text
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	if status >= 400 {
		return "Error"
	}
	return "OK"
}
