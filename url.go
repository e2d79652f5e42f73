package kbase

import (
	"net/url"
	"strings"
)

// NormalizeURL prefixes https:// when rawURL has no scheme and strips the
// fragment. URLs differing only by fragment are the same page.
func NormalizeURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return ""
	}
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	if idx := strings.Index(u, "#"); idx != -1 {
		u = u[:idx]
	}
	return u
}

// URLDomain returns the network authority (host[:port]) of rawURL, or ""
// when it cannot be parsed.
func URLDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// SameDomain reports whether a and b share the same network authority.
func SameDomain(a, b string) bool {
	da := URLDomain(a)
	return da != "" && da == URLDomain(b)
}

// IsPDFURL reports whether rawURL names a PDF by extension.
func IsPDFURL(rawURL string) bool {
	return strings.HasSuffix(strings.ToLower(rawURL), ".pdf")
}

// MatchesExclusion reports whether rawURL contains any of the patterns,
// compared case-insensitively. Empty patterns never match.
func MatchesExclusion(rawURL string, patterns []string) bool {
	lower := strings.ToLower(rawURL)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// IsHTTPURL reports whether rawURL is an absolute http or https URL with a
// host.
func IsHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
