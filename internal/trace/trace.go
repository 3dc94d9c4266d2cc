package trace

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selimozcann/linktracer/internal/htmlscan"
	"github.com/selimozcann/linktracer/internal/model"
)

const (
	DefaultMaxRedirects = 10
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBodyBytes = 5 << 20
)

var (
	ErrMissingURL        = errors.New("URL parameter is required")
	ErrInvalidURL        = errors.New("Invalid URL format")
	ErrUnsupportedScheme = errors.New("Only HTTP(S) URLs are supported")
)

// ValidateTarget checks that raw is an absolute http(s) URL before any request is made.
func ValidateTarget(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return nil, ErrInvalidURL
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, ErrUnsupportedScheme
	}
	if u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// Config bounds a single trace.
type Config struct {
	MaxRedirects int
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Tracer performs manual redirect tracing.
type Tracer struct {
	Client       *http.Client
	MaxRedirects int
	Timeout      time.Duration
	MaxBodyBytes int64

	logger *zap.Logger
}

// New creates a new Tracer. Zero values in cfg fall back to the defaults.
func New(c *http.Client, cfg Config, logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		Client:       c,
		MaxRedirects: cfg.MaxRedirects,
		Timeout:      cfg.Timeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger.Named("trace"),
	}
	if t.MaxRedirects <= 0 {
		t.MaxRedirects = DefaultMaxRedirects
	}
	if t.Timeout <= 0 {
		t.Timeout = DefaultTimeout
	}
	if t.MaxBodyBytes <= 0 {
		t.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return t
}

// chainBuilder appends hops and lets the loop revise the hop it just recorded
// once the response body has been inspected.
type chainBuilder struct {
	hops []model.Hop
}

func (b *chainBuilder) push(h model.Hop) {
	b.hops = append(b.hops, h)
}

func (b *chainBuilder) annotateLast(method model.RedirectMethod, details string) {
	if n := len(b.hops); n > 0 {
		b.hops[n-1].RedirectMethod = method
		b.hops[n-1].RedirectDetails = details
	}
}

func (b *chainBuilder) chain() []model.Hop {
	if b.hops == nil {
		return []model.Hop{}
	}
	return b.hops
}

// Trace follows redirects starting from target. It never fails: transport
// errors become the final hop of the chain.
func (t *Tracer) Trace(ctx context.Context, target string) model.Result {
	res := model.Result{Target: target, StartedAt: time.Now()}
	log := t.logger.With(zap.String("target", target))

	var b chainBuilder
	current, err := url.Parse(target)
	if err != nil {
		b.push(model.Hop{
			URL:             target,
			RedirectMethod:  model.MethodError,
			RedirectDetails: "Request failed",
			Error:           err.Error(),
		})
		res.Chain = b.chain()
		res.DurationMs = time.Since(res.StartedAt).Milliseconds()
		return res
	}

	for i := 0; i < t.MaxRedirects; i++ {
		next, ok := t.step(ctx, current, &b)
		if !ok {
			break
		}
		log.Debug("hop", zap.Int("index", i), zap.String("url", current.String()), zap.String("next", next.String()))
		current = next
	}

	res.Chain = b.chain()
	res.DurationMs = time.Since(res.StartedAt).Milliseconds()
	log.Debug("trace complete", zap.Int("hops", len(res.Chain)), zap.Int64("duration_ms", res.DurationMs))
	return res
}

// step performs one request, records its hop and returns the next URL to
// visit, or false when the chain ends here.
func (t *Tracer) step(ctx context.Context, current *url.URL, b *chainBuilder) (*url.URL, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, current.String(), nil)
	if err != nil {
		b.push(t.failedHop(current, start, err))
		return nil, false
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		b.push(t.failedHop(current, start, err))
		return nil, false
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	b.push(model.Hop{
		URL:             current.String(),
		Status:          status,
		ResponseTimeMs:  time.Since(start).Milliseconds(),
		RedirectMethod:  model.MethodHTTPHeader,
		RedirectDetails: strings.TrimSpace(fmt.Sprintf("HTTP %d %s", status, http.StatusText(status))),
	})

	switch {
	case model.IsRedirectStatus(status):
		loc := resp.Header.Get("Location")
		if loc == "" {
			b.annotateLast(model.MethodHTTPHeader, fmt.Sprintf("HTTP %d without Location header", status))
			return nil, false
		}
		next, ok := htmlscan.Resolve(current, loc)
		if !ok {
			b.annotateLast(model.MethodHTTPHeader, fmt.Sprintf("HTTP %d with unfollowable Location %q", status, loc))
			return nil, false
		}
		return next, true

	case status == http.StatusOK:
		body, err := htmlscan.ReadBody(resp.Body, resp.Header.Get("Content-Type"), t.MaxBodyBytes)
		if err != nil {
			t.logger.Debug("body read failed", zap.String("url", current.String()), zap.Error(err))
			b.annotateLast(model.MethodError, "Could not read response body")
			return nil, false
		}
		r, ok := htmlscan.DetectContentRedirect(body, current)
		if !ok {
			b.annotateLast(model.MethodNone, "Final destination (no further redirects)")
			return nil, false
		}
		b.annotateLast(r.Method, r.Details)
		return r.URL, true

	default:
		b.annotateLast(model.MethodNone, fmt.Sprintf("HTTP %d response, no redirect", status))
		return nil, false
	}
}

func (t *Tracer) failedHop(current *url.URL, start time.Time, err error) model.Hop {
	hop := model.Hop{
		URL:            current.String(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
		RedirectMethod: model.MethodError,
	}
	if isTimeout(err) {
		hop.Error = fmt.Sprintf("Request timeout after %s", t.Timeout)
		hop.RedirectDetails = "Request timed out"
	} else {
		hop.Error = err.Error()
		hop.RedirectDetails = "Network error"
	}
	t.logger.Debug("request failed", zap.String("url", hop.URL), zap.Error(err))
	return hop
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
