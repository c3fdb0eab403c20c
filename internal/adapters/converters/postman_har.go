package converters

import (
	"fmt"
	"strings"

	"github.com/specconv/specconv/internal/domain"
)

// PostmanToHAR converts a Postman collection into a HAR archive. Folders
// are flattened recursively, each request becoming one synthetic entry;
// timing fields carry placeholders since a collection records no observed
// exchange, and the first saved example response fills the response side.
type PostmanToHAR struct{}

// NewPostmanToHAR creates the Postman to HAR converter.
func NewPostmanToHAR() *PostmanToHAR {
	return &PostmanToHAR{}
}

// Source returns the source format.
func (c *PostmanToHAR) Source() domain.Format { return domain.FormatPostman }

// Target returns the target format.
func (c *PostmanToHAR) Target() domain.Format { return domain.FormatHAR }

// Convert builds the HAR document from the collection.
func (c *PostmanToHAR) Convert(doc domain.Document, opts domain.Options) (domain.Document, error) {
	if _, ok := doc["info"]; !ok {
		return nil, fmt.Errorf("%w: postman collection is missing the \"info\" object", domain.ErrMalformedInput)
	}
	if _, ok := doc["item"]; !ok {
		return nil, fmt.Errorf("%w: postman collection is missing the \"item\" array", domain.ErrMalformedInput)
	}

	var entries []any
	collectItems(sliceAt(doc, "item"), &entries)
	if entries == nil {
		entries = []any{}
	}

	return domain.Document{
		"log": map[string]any{
			"version": "1.2",
			"creator": map[string]any{
				"name":    "specconv",
				"version": "1.0.0",
			},
			"entries": entries,
		},
	}, nil
}

// collectItems walks the item tree depth first; an item holding a nested
// "item" list is a folder, anything with a "request" is converted.
func collectItems(items []any, entries *[]any) {
	for _, i := range items {
		item, ok := i.(map[string]any)
		if !ok {
			continue
		}
		if nested := sliceAt(item, "item"); nested != nil {
			collectItems(nested, entries)
			continue
		}
		if entry := postmanEntry(item); entry != nil {
			*entries = append(*entries, entry)
		}
	}
}

func postmanEntry(item map[string]any) map[string]any {
	request := mapAt(item, "request")
	if len(request) == 0 {
		return nil
	}

	method := stringAt(request, "method")
	if method == "" {
		method = "GET"
	}

	url, query := postmanURL(request["url"])

	harRequest := map[string]any{
		"method":      method,
		"url":         url,
		"httpVersion": "HTTP/1.1",
		"cookies":     []any{},
		"headers":     keyValuePairs(sliceAt(request, "header")),
		"queryString": query,
		"headersSize": -1,
		"bodySize":    -1,
	}
	if body := mapAt(request, "body"); len(body) > 0 {
		if postData := postmanBody(body, harRequest); postData != nil {
			harRequest["postData"] = postData
		}
	}

	harResponse := map[string]any{
		"status":      200,
		"statusText":  "OK",
		"httpVersion": "HTTP/1.1",
		"cookies":     []any{},
		"headers":     []any{},
		"content": map[string]any{
			"size":     0,
			"mimeType": "application/json",
			"text":     "",
		},
		"redirectURL": "",
		"headersSize": -1,
		"bodySize":    -1,
	}
	if examples := sliceAt(item, "response"); len(examples) > 0 {
		if example, ok := examples[0].(map[string]any); ok {
			applyExampleResponse(harResponse, example)
		}
	}

	return map[string]any{
		"startedDateTime": "2023-01-01T00:00:00.000Z",
		"time":            0,
		"request":         harRequest,
		"response":        harResponse,
		"cache":           map[string]any{},
		"timings": map[string]any{
			"send":    0,
			"wait":    0,
			"receive": 0,
		},
	}
}

// postmanURL renders a Postman url field, which is either a plain string
// or a structured object, into a URL string plus HAR query pairs.
func postmanURL(raw any) (string, []any) {
	switch u := raw.(type) {
	case string:
		return u, []any{}
	case map[string]any:
		protocol := stringAt(u, "protocol")
		if protocol == "" {
			protocol = "https"
		}
		host := joinParts(u["host"], ".")
		path := strings.TrimPrefix(joinParts(u["path"], "/"), "/")
		url := protocol + "://" + host + "/" + path

		query := keyValuePairs(sliceAt(u, "query"))
		if len(query) > 0 {
			var qs []string
			for _, p := range query {
				pair := p.(map[string]any)
				qs = append(qs, stringAt(pair, "name")+"="+stringAt(pair, "value"))
			}
			url += "?" + strings.Join(qs, "&")
		}
		return url, query
	}
	return "", []any{}
}

// joinParts joins a Postman host or path, which is either a string or a
// list of segments, with the given separator.
func joinParts(raw any, sep string) string {
	switch v := raw.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	}
	return ""
}

// keyValuePairs maps Postman key/value entries onto HAR name/value pairs.
func keyValuePairs(entries []any) []any {
	out := []any{}
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		key, hasKey := entry["key"].(string)
		value, hasValue := entry["value"].(string)
		if !hasKey || !hasValue {
			continue
		}
		out = append(out, map[string]any{"name": key, "value": value})
	}
	return out
}

func postmanBody(body map[string]any, harRequest map[string]any) map[string]any {
	switch stringAt(body, "mode") {
	case "raw":
		raw := stringAt(body, "raw")
		mime := headerValue(harRequest, "content-type")
		if mime == "" {
			mime = "text/plain"
		}
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			mime = "application/json"
		}
		return map[string]any{"mimeType": mime, "text": raw}
	case "urlencoded":
		params := keyValuePairs(sliceAt(body, "urlencoded"))
		var qs []string
		for _, p := range params {
			pair := p.(map[string]any)
			qs = append(qs, stringAt(pair, "name")+"="+stringAt(pair, "value"))
		}
		return map[string]any{
			"mimeType": "application/x-www-form-urlencoded",
			"params":   params,
			"text":     strings.Join(qs, "&"),
		}
	case "formdata":
		return map[string]any{
			"mimeType": "multipart/form-data",
			"params":   keyValuePairs(sliceAt(body, "formdata")),
		}
	}
	return nil
}

// headerValue looks up a header by lowercase name in an already built HAR
// request or response, returning "" when absent.
func headerValue(owner map[string]any, name string) string {
	headers, _ := owner["headers"].([]any)
	for _, h := range headers {
		header, ok := h.(map[string]any)
		if !ok {
			continue
		}
		if strings.ToLower(stringAt(header, "name")) == name {
			return stringAt(header, "value")
		}
	}
	return ""
}

func applyExampleResponse(harResponse map[string]any, example map[string]any) {
	if code, ok := intAt(example, "code"); ok {
		harResponse["status"] = code
	}
	if status := stringAt(example, "status"); status != "" {
		harResponse["statusText"] = status
	}
	headers := keyValuePairs(sliceAt(example, "header"))
	harResponse["headers"] = headers

	body := stringAt(example, "body")
	mime := headerValue(harResponse, "content-type")
	if mime == "" {
		mime = "text/plain"
	}
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		mime = "application/json"
	}
	harResponse["content"] = map[string]any{
		"size":     len(body),
		"mimeType": mime,
		"text":     body,
	}
}
