package httpmetrics

import "strings"

// UnmatchedPath labels every request outside the known routes.
const UnmatchedPath = "/{unmatched}"

var knownPaths = map[string]struct{}{
	"/":        {},
	"/health":  {},
	"/metrics": {},
	"/sw.js":   {},
}

// NormalizePath maps a request path onto a fixed set of route labels so that
// scanners hitting arbitrary URLs cannot grow label cardinality.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/{file}"
	}
	return UnmatchedPath
}
