package render

import (
	"html/template"
	"net/url"
	"strings"
)

// allowedMediaSchemes are the URI schemes embedded as image sources. Anything
// else (javascript:, vbscript:, unknown app schemes) is dropped.
var allowedMediaSchemes = map[string]bool{
	"http":    true,
	"https":   true,
	"file":    true,
	"data":    true,
	"content": true,
}

// mediaURL returns ref as a trusted template URL when its scheme is allowed,
// and false otherwise. data: URIs must be images.
func mediaURL(ref string) (template.URL, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if !allowedMediaSchemes[scheme] {
		return "", false
	}
	if scheme == "data" && !strings.HasPrefix(strings.ToLower(u.Opaque), "image/") {
		return "", false
	}
	return template.URL(ref), true
}
