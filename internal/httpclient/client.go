package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultUserAgent identifies tracing traffic to the operators of traced sites.
const DefaultUserAgent = "linktracer/1.0 (Redirect Tracker)"

// Config holds settings for the HTTP client.
type Config struct {
	Timeout   time.Duration
	Proxy     func(*http.Request) (*url.URL, error)
	Headers   http.Header
	UserAgent string
	Insecure  bool
}

// headerRoundTripper wraps a base RoundTripper to inject the client identifier
// and any extra headers on every outgoing request.
type headerRoundTripper struct {
	base      http.RoundTripper
	headers   http.Header
	userAgent string
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := h.base
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	for k, vs := range h.headers {
		r.Header.Del(k)
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", h.userAgent)
	}
	return base.RoundTrip(r)
}

// New returns a configured HTTP client with manual redirect handling.
func New(cfg Config) *http.Client {
	dialTimeout := cfg.Timeout
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	transport := &http.Transport{
		Proxy:           cfg.Proxy,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure}, // #nosec G402 -- opt-in via config
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   dialTimeout,
		ExpectContinueTimeout: time.Second,
	}

	return &http.Client{
		Transport: &headerRoundTripper{
			base:      transport,
			headers:   cfg.Headers,
			userAgent: ua,
		},
		// The tracer enforces its own per-request deadline through the context.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// ParseHeaders converts "Key: Value" strings into an http.Header.
func ParseHeaders(lines []string) (http.Header, error) {
	hdr := make(http.Header)
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q (expected Key: Value)", line)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid header %q (empty key)", line)
		}
		hdr.Add(key, strings.TrimSpace(value))
	}
	return hdr, nil
}
