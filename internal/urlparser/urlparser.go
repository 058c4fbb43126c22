// Package urlparser extracts a numeric page identifier from a Facebook
// URL, where possible without any network call.
package urlparser

import (
	"net/url"
	"strings"
)

var facebookHosts = map[string]struct{}{
	"facebook.com":         {},
	"www.facebook.com":     {},
	"m.facebook.com":       {},
	"web.facebook.com":     {},
	"mobile.facebook.com":  {},
	"l.facebook.com":       {},
	"business.facebook.com": {},
}

func isFacebookHost(host string) bool {
	_, ok := facebookHosts[host]
	return ok
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ExtractPageID extracts a numeric page ID from a Facebook URL.
//
// It recognizes Ad Library URLs (?view_all_page_id=...), profile URLs
// (?id=...), direct numeric page paths (facebook.com/123456), and bare
// numeric strings. Vanity/username URLs cannot be resolved to a numeric
// ID without a network call and return ("", false).
func ExtractPageID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if isDigits(raw) {
		return raw, true
	}

	candidate := raw
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}
	if !isFacebookHost(parsed.Hostname()) {
		return "", false
	}

	query := parsed.Query()
	if viewAll := query.Get("view_all_page_id"); isDigits(viewAll) {
		return viewAll, true
	}
	if profileID := query.Get("id"); isDigits(profileID) {
		return profileID, true
	}

	path := strings.Trim(parsed.Path, "/")
	var pathParts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			pathParts = append(pathParts, p)
		}
	}
	if len(pathParts) == 0 {
		return "", false
	}

	for i := len(pathParts) - 1; i >= 0; i-- {
		part := pathParts[i]
		if isDigits(part) && len(part) >= 5 {
			return part, true
		}
	}

	return "", false
}
