package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/selimozcann/linktracer/internal/classify"
	"github.com/selimozcann/linktracer/internal/statuscolor"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
)

// PrintRecord writes the full console view of one traced target.
func PrintRecord(w io.Writer, idx, total int, rec Record) {
	fmt.Fprintf(w, "=== Target %d/%d ===\n", idx, total)
	fmt.Fprintf(w, "[+] Tracing: %s\n", rec.OriginalURL)
	statuscolor.PrintChain(w, rec.Chain)

	if n := len(rec.Chain); n > 0 && rec.Chain[n-1].Error != "" {
		red.Fprintf(w, "  [!] Error at %s: %s\n", rec.Chain[n-1].URL, rec.Chain[n-1].Error)
	} else {
		green.Fprintf(w, "  ✔ Final URL reached: %s\n", rec.FinalURL)
	}
	fmt.Fprintf(w, "Redirects: %d header, %d content | type=%s | %dms\n", rec.RedirectCount, rec.JSRedirectCount, rec.Type, rec.DurationMs)
	if rec.Destination != nil {
		PrintHost(w, *rec.Destination)
	}
	if rec.ParameterInsight != "" {
		yellow.Fprintf(w, "  ⚑ %s\n", rec.ParameterInsight)
	}
	fmt.Fprintln(w)
}

// PrintSummaryLine writes the one-line form used with --summary.
func PrintSummaryLine(w io.Writer, idx, total int, rec Record) {
	status := 0
	if n := len(rec.Chain); n > 0 {
		status = rec.Chain[n-1].Status
	}
	fmt.Fprintf(w, "[%d/%d] %s -> %s | status=%d | redirects=%d | js=%d | duration=%dms\n",
		idx, total, rec.OriginalURL, rec.FinalURL, status, rec.RedirectCount, rec.JSRedirectCount, rec.DurationMs)
}

// PrintHost writes a destination description.
func PrintHost(w io.Writer, info classify.HostInfo) {
	label := "unclassified"
	if c := info.Classification; c != nil {
		label = fmt.Sprintf("%s %s (%s)", c.Category.Icon, c.Name, c.Category.Name)
	}
	cyan.Fprintf(w, "  ↪ %s [%s] %s", info.Hostname, info.RegistrableDomain, label)
	if info.Internal {
		red.Fprint(w, " internal")
	}
	fmt.Fprintln(w)
}

// PrintParameters writes one line per analyzed query parameter.
func PrintParameters(w io.Writer, a classify.ParameterAnalysis) {
	if a.Error != "" {
		red.Fprintf(w, "  [!] %s\n", a.Error)
		return
	}
	if a.TotalCount == 0 {
		fmt.Fprintln(w, "  no query parameters")
		return
	}
	for _, p := range a.Params {
		line := fmt.Sprintf("  %s %s=%s [%s/%s] %s", p.TypeInfo.Icon, p.Key, p.Value, p.Type, p.Privacy, p.Description)
		if p.Highlight {
			yellow.Fprintln(w, line)
			continue
		}
		fmt.Fprintln(w, line)
	}
	if insight, ok := classify.GenerateParameterInsight(a); ok {
		fmt.Fprintf(w, "  ⚑ %s\n", insight)
	}
}
