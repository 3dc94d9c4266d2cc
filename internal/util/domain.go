package util

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// NormalizeHost lower-cases host and drops a trailing root dot.
func NormalizeHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
}

// RegistrableDomain returns the eTLD+1 of host using the public suffix list.
// IP literals and hosts that are themselves a public suffix are returned as is.
func RegistrableDomain(host string) string {
	host = NormalizeHost(host)
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

// SameBaseDomain reports whether two URLs share a registrable domain.
func SameBaseDomain(a, b string) bool {
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	if errA != nil || errB != nil || ua.Hostname() == "" || ub.Hostname() == "" {
		return false
	}
	return RegistrableDomain(ua.Hostname()) == RegistrableDomain(ub.Hostname())
}
