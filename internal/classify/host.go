package classify

import (
	"net/url"
	"strings"

	"github.com/selimozcann/linktracer/internal/util"
)

// HostInfo describes where a URL points.
type HostInfo struct {
	Hostname          string                `json:"hostname"`
	RegistrableDomain string                `json:"registrableDomain"`
	Internal          bool                  `json:"internal"`
	Classification    *DomainClassification `json:"classification,omitempty"`
}

// DescribeHost classifies hostname, falling back to an exact table entry for
// its registrable domain (cdn.bit.ly is reported as Bitly). Patterns are only
// tried against the full hostname, so docs.example.com stays unclassified.
func DescribeHost(hostname string) HostInfo {
	host := util.NormalizeHost(hostname)
	info := HostInfo{
		Hostname:          host,
		RegistrableDomain: util.RegistrableDomain(host),
		Internal:          util.IsInternalHost(host),
	}
	c, ok := ClassifyDomain(host)
	if !ok && info.RegistrableDomain != host {
		c, ok = domainTable[info.RegistrableDomain]
	}
	if ok {
		info.Classification = &c
	}
	return info
}

// DescribeURL runs DescribeHost on the host of rawURL.
func DescribeURL(rawURL string) (HostInfo, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return HostInfo{}, false
	}
	return DescribeHost(u.Hostname()), true
}
