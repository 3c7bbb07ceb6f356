package parser

import (
	"net/url"
	"strings"
)

// Readable names for domains whose host string makes a poor attribution.
var sourceDomains = map[string]string{
	"nj.com":              "NJ.com",
	"njspotlightnews.org": "NJ Spotlight News",
	"northjersey.com":     "NorthJersey.com",
	"whyy.org":            "WHYY",
	"montclairlocal.news": "Montclair Local",
	"newjerseymonitor.com": "New Jersey Monitor",
}

// TransformURL applies per-outlet URL rewrites. NJ.com links get the AMP
// output parameter appended so the story opens without the paywall.
func TransformURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "nj.com") && !strings.Contains(raw, "outputType=amp") {
		if strings.Contains(raw, "?") {
			return raw + "&outputType=amp"
		}
		return raw + "?outputType=amp"
	}
	return raw
}

// SourceFromURL derives a readable source name from the URL domain when a
// story arrives without attribution. Unknown domains fall back to the bare
// host; unparsable URLs yield an empty string.
func SourceFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	if name, ok := sourceDomains[host]; ok {
		return name
	}
	return host
}
