package research

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL into a deduplication key. Two URLs that
// differ only in scheme, a leading "www." host label, trailing slashes or
// case produce the same key. Query strings and fragments never affect
// identity. The function never fails: unparseable input goes through a
// best-effort string transform instead.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return fallbackNormalize(trimmed)
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	path := strings.TrimRight(u.EscapedPath(), "/")

	return strings.ToLower(host + path)
}

// fallbackNormalize applies the same transforms without a parsed URL.
func fallbackNormalize(raw string) string {
	s := strings.ToLower(raw)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "/")
}
