package helpers

import (
	"net/url"
	"strings"
)

// UnknownDomain is the sentinel returned for URLs whose host cannot be
// determined. Credibility lookups treat it as a valid low-confidence key.
const UnknownDomain = "unknown"

// ExtractDomain reduces a URL string to a comparable domain key: the
// lowercase host without a leading "www." prefix. It never fails; any
// malformed or hostless input yields UnknownDomain.
func ExtractDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownDomain
	}

	parsed, err := parseURLPreserveHost(raw)
	if err != nil {
		return UnknownDomain
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return UnknownDomain
	}
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return UnknownDomain
	}
	// A bare word like "not a url" parses as a path, not a host; a host
	// without any dot is not a comparable domain key.
	if !strings.Contains(host, ".") {
		return UnknownDomain
	}
	return host
}

// parseURLPreserveHost attempts to parse raw into a url.URL, handling schemeless URLs.
func parseURLPreserveHost(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" && parsed.Host == "" {
		// Attempt schemeless format like example.com/path or //example.com/path.
		if strings.HasPrefix(raw, "//") {
			return url.Parse("https:" + raw)
		}
		return url.Parse("https://" + raw)
	}
	return parsed, nil
}
