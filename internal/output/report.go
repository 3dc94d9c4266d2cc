package output

import (
	"bufio"
	"encoding/json"
	"io"
	"net/url"
	"time"

	"github.com/selimozcann/linktracer/internal/classify"
	"github.com/selimozcann/linktracer/internal/model"
	"github.com/selimozcann/linktracer/internal/util"
)

// ResultType enumerates the classification of a redirect chain.
type ResultType string

const (
	ResultTypeUnknown     ResultType = "unknown"
	ResultTypeCrossDomain ResultType = "cross_domain"
	ResultTypeSameDomain  ResultType = "same_domain"
	ResultTypeOK          ResultType = "ok"
	ResultTypeError       ResultType = "error"
)

// Record is the body of a successful trace response and one line of the JSONL report.
type Record struct {
	Success          bool                       `json:"success"`
	Chain            []model.Hop                `json:"chain"`
	OriginalURL      string                     `json:"originalUrl"`
	FinalURL         string                     `json:"finalUrl"`
	RedirectCount    int                        `json:"redirectCount"`
	JSRedirectCount  int                        `json:"jsRedirectCount"`
	Destination      *classify.HostInfo         `json:"destination,omitempty"`
	Domains          []classify.HostInfo        `json:"domains"`
	Parameters       classify.ParameterAnalysis `json:"parameters"`
	ParameterInsight string                     `json:"parameterInsight,omitempty"`
	Type             ResultType                 `json:"type"`
	Timestamp        string                     `json:"timestamp"`
	DurationMs       int64                      `json:"durationMs"`
}

// BuildRecord converts a traced result into a Record, classifying the final
// destination and every host visited along the way.
func BuildRecord(res model.Result) Record {
	sum := res.Summary()
	chain := res.Chain
	if chain == nil {
		chain = []model.Hop{}
	}
	rec := Record{
		Success:         true,
		Chain:           chain,
		OriginalURL:     res.Target,
		FinalURL:        sum.FinalURL,
		RedirectCount:   sum.RedirectCount,
		JSRedirectCount: sum.ContentRedirectCount,
		Domains:         chainDomains(chain),
		Parameters:      classify.AnalyzeParameters(sum.FinalURL),
		Type:            DetermineType(res),
		Timestamp:       res.StartedAt.UTC().Format(time.RFC3339),
		DurationMs:      res.DurationMs,
	}
	if info, ok := classify.DescribeURL(sum.FinalURL); ok {
		rec.Destination = &info
	}
	if insight, ok := classify.GenerateParameterInsight(rec.Parameters); ok {
		rec.ParameterInsight = insight
	}
	return rec
}

// chainDomains lists the distinct hosts of the chain in visiting order.
func chainDomains(chain []model.Hop) []classify.HostInfo {
	out := []classify.HostInfo{}
	seen := make(map[string]struct{})
	for _, hop := range chain {
		u, err := url.Parse(hop.URL)
		if err != nil || u.Hostname() == "" {
			continue
		}
		host := util.NormalizeHost(u.Hostname())
		if _, ok := seen[host]; ok {
			continue
		}
		seen[host] = struct{}{}
		out = append(out, classify.DescribeHost(host))
	}
	return out
}

// Summary holds counters over a batch of results.
type Summary struct {
	TotalTargets     int
	Redirected       int
	CrossDomain      int
	ContentRedirects int
	Errors           int
}

// BuildSummary derives batch counters from the results.
func BuildSummary(results []model.Result) Summary {
	sum := Summary{TotalTargets: len(results)}
	for _, res := range results {
		s := res.Summary()
		if len(res.Chain) > 1 {
			sum.Redirected++
		}
		if DetermineType(res) == ResultTypeCrossDomain {
			sum.CrossDomain++
		}
		sum.ContentRedirects += s.ContentRedirectCount
		if res.Failed() {
			sum.Errors++
		}
	}
	return sum
}

// DetermineType classifies the given result into one of the ResultType values.
func DetermineType(res model.Result) ResultType {
	if len(res.Chain) == 0 {
		return ResultTypeUnknown
	}
	if res.Failed() {
		return ResultTypeError
	}
	last := res.Chain[len(res.Chain)-1]
	if len(res.Chain) > 1 {
		if util.SameBaseDomain(res.Target, last.URL) {
			return ResultTypeSameDomain
		}
		return ResultTypeCrossDomain
	}
	if last.Status >= 400 {
		return ResultTypeError
	}
	return ResultTypeOK
}

// WriteJSONL writes each record as a JSON line to w.
func WriteJSONL(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}
