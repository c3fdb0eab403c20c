package converters

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numericSegment = regexp.MustCompile(`^[0-9]+$`)
	uuidSegment    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	hexIDSegment   = regexp.MustCompile(`^[0-9a-fA-F]{24,}$`)
)

// looksLikeIdentifier reports whether a path segment is a concrete resource
// identifier (numeric, UUID, or a long hex id such as a Mongo ObjectId)
// rather than a literal route word.
func looksLikeIdentifier(segment string) bool {
	return numericSegment.MatchString(segment) ||
		uuidSegment.MatchString(segment) ||
		hexIDSegment.MatchString(segment)
}

// templatePath abstracts identifier-looking segments of a URL path into
// {param} placeholders so that /api/users/1 and /api/users/2 collapse into
// the single template /api/users/{id}. The first placeholder gets the
// generic name "id"; later ones derive a name from the preceding literal
// segment (/users/1/orders/2 becomes /users/{id}/orders/{order_id}).
// Returns the template and the placeholder names in order.
func templatePath(path string) (string, []string) {
	if path == "" || path == "/" {
		return "/", nil
	}

	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	var params []string
	used := make(map[string]bool)

	for i, segment := range segments {
		if !looksLikeIdentifier(segment) {
			continue
		}

		name := "id"
		if len(params) > 0 && i > 0 {
			if ctx := paramNameFromContext(segments[i-1]); ctx != "" {
				name = ctx
			}
		}
		if used[name] {
			if ctx := paramNameFromContext(segmentBefore(segments, i)); ctx != "" && !used[ctx] {
				name = ctx
			} else {
				name = uniqueParamName(name, used)
			}
		}
		used[name] = true
		params = append(params, name)
		segments[i] = "{" + name + "}"
	}

	return "/" + strings.Join(segments, "/"), params
}

func segmentBefore(segments []string, i int) string {
	if i == 0 {
		return ""
	}
	return segments[i-1]
}

// paramNameFromContext derives a parameter name from the literal segment
// preceding an identifier: "orders" yields "order_id". Placeholder and
// non-word segments yield nothing.
func paramNameFromContext(segment string) string {
	if segment == "" || strings.HasPrefix(segment, "{") {
		return ""
	}
	word := sanitizeIdent(segment)
	if word == "" {
		return ""
	}
	word = singular(word)
	return word + "_id"
}

// singular trims a plural "s" suffix; "orders" becomes "order" while "ss"
// endings such as "address" are left alone.
func singular(word string) string {
	if len(word) > 2 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return strings.TrimSuffix(word, "s")
	}
	return word
}

func uniqueParamName(base string, used map[string]bool) string {
	name := base
	for n := 2; used[name]; n++ {
		name = base + strconv.Itoa(n)
	}
	return name
}
