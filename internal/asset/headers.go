package asset

import (
	"net/http"
	"strings"
)

// passthroughHeaders are the only upstream headers copied to the client.
var passthroughHeaders = []string{"Content-Type", "Content-Length", "Last-Modified", "ETag"}

// WriteProxyHeaders sets the response headers for a proxied asset on dst.
func WriteProxyHeaders(dst, upstream http.Header, filename string) {
	for _, name := range passthroughHeaders {
		if v := upstream.Get(name); v != "" {
			dst.Set(name, v)
		}
	}
	if dst.Get("Content-Type") == "" {
		dst.Set("Content-Type", "application/pdf")
	}

	dst.Set("Cache-Control", "private, max-age=60")
	dst.Set("X-Frame-Options", "SAMEORIGIN")
	dst.Set("Content-Security-Policy", "frame-ancestors 'self'")

	disposition := "inline"
	if name := SanitizeFilename(filename); name != "" {
		disposition += `; filename="` + name + `"`
	}
	dst.Set("Content-Disposition", disposition)
}

// SanitizeFilename keeps letters, digits, dot, dash and underscore so the
// value is safe inside a quoted Content-Disposition parameter.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
		if b.Len() >= 128 {
			break
		}
	}
	return strings.Trim(b.String(), "._")
}
