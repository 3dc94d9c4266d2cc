package statuscolor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/selimozcann/linktracer/internal/model"
)

func TestStatusText(t *testing.T) {
	cases := map[int]string{
		200: "OK",
		302: "Found (Temporary Redirect)",
		500: "Server Error",
		418: "Status 418",
		0:   "Status 0",
	}
	for status, want := range cases {
		if got := StatusText(status); got != want {
			t.Fatalf("StatusText(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestClassOf(t *testing.T) {
	cases := map[int]Class{
		200: ClassSuccess,
		204: ClassSuccess,
		301: ClassRedirect,
		404: ClassClient,
		503: ClassServer,
		0:   ClassOther,
		101: ClassOther,
	}
	for status, want := range cases {
		if got := ClassOf(status); got != want {
			t.Fatalf("ClassOf(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestPrintChain(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	PrintChain(&buf, []model.Hop{
		{URL: "https://a.example", Status: 302, ResponseTimeMs: 12, RedirectMethod: model.MethodHTTPHeader, RedirectDetails: "HTTP 302 Found"},
		{URL: "https://b.example", RedirectMethod: model.MethodError, RedirectDetails: "Network error", Error: "connection refused"},
	})
	out := buf.String()
	for _, want := range []string{"[0] https://a.example 302 - Found (Temporary Redirect) (12ms)", "http-header HTTP 302 Found", "[1] https://b.example —", "error: connection refused"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
