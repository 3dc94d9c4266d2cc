package model

import "time"

// RedirectMethod tags how a hop pointed to the next one, or why it ended the chain.
type RedirectMethod string

const (
	MethodHTTPHeader              RedirectMethod = "http-header"
	MethodJSWindowLocationHref    RedirectMethod = "javascript-window-location-href"
	MethodJSWindowLocationReplace RedirectMethod = "javascript-window-location-replace"
	MethodJSWindowLocation        RedirectMethod = "javascript-window-location"
	MethodJSLocationHref          RedirectMethod = "javascript-location-href"
	MethodJSLocationReplace       RedirectMethod = "javascript-location-replace"
	MethodJSLocation              RedirectMethod = "javascript-location"
	MethodMetaRefresh             RedirectMethod = "meta-refresh"
	MethodMetaRefreshAlt          RedirectMethod = "meta-refresh-alt"
	MethodNone                    RedirectMethod = "none"
	MethodError                   RedirectMethod = "error"
)

// Terminal reports whether a hop carrying m always ends the chain.
func (m RedirectMethod) Terminal() bool {
	return m == MethodNone || m == MethodError
}

// Content reports whether m describes a redirect embedded in page content.
func (m RedirectMethod) Content() bool {
	switch m {
	case MethodHTTPHeader, MethodNone, MethodError, "":
		return false
	}
	return true
}

// Hop represents a single step in a redirect chain.
// Status 0 means the request failed before any HTTP response arrived.
type Hop struct {
	URL             string         `json:"url"`
	Status          int            `json:"status"`
	ResponseTimeMs  int64          `json:"responseTime"`
	RedirectMethod  RedirectMethod `json:"redirectMethod"`
	RedirectDetails string         `json:"redirectDetails"`
	Error           string         `json:"error,omitempty"`
}

// IsRedirectStatus reports whether status is in the 3xx range.
func IsRedirectStatus(status int) bool {
	return status >= 300 && status <= 399
}

// Result is the outcome of tracing a single target.
type Result struct {
	Target     string    `json:"target"`
	Chain      []Hop     `json:"chain"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
}

// Summary holds counters derived from a chain. It is never stored in the chain itself.
type Summary struct {
	RedirectCount        int
	ContentRedirectCount int
	FinalURL             string
}

// Summary derives the redirect counters and final URL from the chain.
func (r Result) Summary() Summary {
	s := Summary{FinalURL: r.Target}
	ok := 0
	for _, h := range r.Chain {
		if IsRedirectStatus(h.Status) {
			s.RedirectCount++
		}
		if h.Status == 200 {
			ok++
		}
	}
	if ok > 1 {
		s.ContentRedirectCount = ok - 1
	}
	if n := len(r.Chain); n > 0 {
		s.FinalURL = r.Chain[n-1].URL
	}
	return s
}

// Failed reports whether the chain ended with a transport failure.
func (r Result) Failed() bool {
	n := len(r.Chain)
	return n > 0 && r.Chain[n-1].Status == 0
}
