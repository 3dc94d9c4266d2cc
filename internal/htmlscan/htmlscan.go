package htmlscan

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/selimozcann/linktracer/internal/model"
)

// Redirect is a client-side redirect found in page content.
type Redirect struct {
	URL     *url.URL
	Method  model.RedirectMethod
	Details string
}

type pattern struct {
	re      *regexp.Regexp
	method  model.RedirectMethod
	details string
}

const (
	// quoted captures a single- or double-quoted target.
	quoted = `["']([^"']+)["']`
	// bare keeps attribute names such as data-location from matching a bare location.
	bare = `(?:^|[^\w-])`
)

// patterns are tried in order; the first one yielding a valid target wins.
var patterns = []pattern{
	{
		re:      regexp.MustCompile(`(?i)window\.location\.href\s*=\s*` + quoted),
		method:  model.MethodJSWindowLocationHref,
		details: "JavaScript redirect via window.location.href assignment",
	},
	{
		re:      regexp.MustCompile(`(?i)window\.location\.replace\s*\(\s*` + quoted + `\s*\)`),
		method:  model.MethodJSWindowLocationReplace,
		details: "JavaScript redirect via window.location.replace()",
	},
	{
		re:      regexp.MustCompile(`(?i)window\.location\s*=\s*` + quoted),
		method:  model.MethodJSWindowLocation,
		details: "JavaScript redirect via window.location assignment",
	},
	{
		re:      regexp.MustCompile(`(?i)` + bare + `location\.href\s*=\s*` + quoted),
		method:  model.MethodJSLocationHref,
		details: "JavaScript redirect via location.href assignment",
	},
	{
		re:      regexp.MustCompile(`(?i)` + bare + `location\.replace\s*\(\s*` + quoted + `\s*\)`),
		method:  model.MethodJSLocationReplace,
		details: "JavaScript redirect via location.replace()",
	},
	{
		re:      regexp.MustCompile(`(?i)` + bare + `location\s*=\s*` + quoted),
		method:  model.MethodJSLocation,
		details: "JavaScript redirect via location assignment",
	},
	{
		re:      regexp.MustCompile(`(?i)<meta[^>]*http-equiv\s*=\s*["']?refresh["']?[^>]*content\s*=\s*["']?\s*\d*\s*;?\s*url\s*=\s*['"]?([^"'>\s]+)`),
		method:  model.MethodMetaRefresh,
		details: "Meta refresh redirect",
	},
	{
		re:      regexp.MustCompile(`(?i)<meta[^>]*content\s*=\s*["']?\s*\d*\s*;?\s*url\s*=\s*['"]?([^"'>\s]+)['"]?[^>]*http-equiv\s*=\s*["']?refresh["']?`),
		method:  model.MethodMetaRefreshAlt,
		details: "Meta refresh redirect (content before http-equiv)",
	},
}

// DetectContentRedirect inspects body for a script or meta-refresh redirect.
// Each pattern contributes at most its first match; a candidate that does not
// resolve to an absolute http(s) URL is skipped in favour of the next pattern.
func DetectContentRedirect(body string, base *url.URL) (Redirect, bool) {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		next, ok := Resolve(base, m[1])
		if !ok {
			continue
		}
		return Redirect{URL: next, Method: p.method, Details: p.details}, true
	}
	return Redirect{}, false
}

// Resolve resolves ref against base and accepts the result only if it is an
// absolute http or https URL with a host.
func Resolve(base *url.URL, ref string) (*url.URL, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if !IsHTTPURL(u) {
		return nil, false
	}
	return u, true
}

// IsHTTPURL reports whether u is an absolute http(s) URL with a host.
func IsHTTPURL(u *url.URL) bool {
	if u == nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

// ReadBody reads up to limit bytes of r as text, decoding from the charset
// named in contentType (or sniffed from the content) to UTF-8. Any error
// reading r is returned, however early the body breaks off.
func ReadBody(r io.Reader, contentType string, limit int64) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(raw) == 0 {
		return "", nil
	}
	decoded, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	b, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return string(b), nil
}
