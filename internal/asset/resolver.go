package asset

import (
	"net/url"
	"strings"

	"github.com/carbonjar/lms/internal/model"
)

// DefaultProxyPath is the same-origin route that serves proxied assets.
const DefaultProxyPath = "/api/v1/certificates/proxy"

// Resolver turns a stored PDF reference into browser-facing preview and
// download URLs. It performs no I/O.
type Resolver struct {
	ProxyPath    string
	TrustedHosts []string
}

func NewResolver(proxyPath string, trustedHosts []string) *Resolver {
	if proxyPath == "" {
		proxyPath = DefaultProxyPath
	}
	return &Resolver{ProxyPath: proxyPath, TrustedHosts: trustedHosts}
}

// Resolve classifies pdfRef and builds its URLs. slug names the download,
// fallback is shown when the document cannot be previewed in place.
func (r *Resolver) Resolve(pdfRef, slug, fallback *string) model.AssetURLs {
	ref := deref(pdfRef)
	if ref == "" {
		return model.AssetURLs{Source: model.AssetSourceMissing}
	}
	fb := nonEmpty(deref(fallback))

	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || u.Host == "" {
		// "//host/path" is protocol-relative and leaves the site.
		if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
			return model.AssetURLs{PreviewURL: &ref, DownloadURL: &ref, Source: model.AssetSourceRelative}
		}
		return model.AssetURLs{PreviewURL: fb, DownloadURL: fb, Source: model.AssetSourceRemote}
	}

	// The proxy only fetches over https, so other schemes stay remote.
	if strings.EqualFold(u.Scheme, "https") && r.trusted(u.Hostname()) {
		preview := r.ProxyPath + "?url=" + url.QueryEscape(ref)
		download := preview
		if name := deref(slug); name != "" {
			download += "&filename=" + url.QueryEscape(name+".pdf")
		}
		return model.AssetURLs{PreviewURL: &preview, DownloadURL: &download, Source: model.AssetSourceEdgeStore}
	}

	preview := fb
	if preview == nil {
		preview = &ref
	}
	return model.AssetURLs{PreviewURL: preview, DownloadURL: &ref, Source: model.AssetSourceRemote}
}

func (r *Resolver) trusted(host string) bool {
	return hostAllowed(r.TrustedHosts, host)
}

// hostAllowed is an exact, case-insensitive match. No suffix or substring
// matching.
func hostAllowed(allowed []string, host string) bool {
	if host == "" {
		return false
	}
	for _, h := range allowed {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
