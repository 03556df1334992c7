// Package scrapers fetches PWS dashboard pages and extracts station fields
// from the rendered HTML.
package scrapers

import (
	"time"
)

// DefaultUserAgent is sent unless http.user_agent overrides it.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0 Safari/537.36"

var DefaultHeaders = map[string]string{
	"User-Agent":      DefaultUserAgent,
	"Accept-Language": "en-US,en;q=0.9",
	"Accept-Encoding": "gzip",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Connection":      "keep-alive",
	"Cache-Control":   "no-cache",
}

// Headers returns a copy of DefaultHeaders with the user agent replaced when
// ua is not empty.
func Headers(ua string) map[string]string {
	h := make(map[string]string, len(DefaultHeaders))
	for k, v := range DefaultHeaders {
		h[k] = v
	}
	if ua != "" {
		h["User-Agent"] = ua
	}
	return h
}

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 5 * time.Second

// TracerName is the instrumentation name of the scraper spans.
const TracerName = "github.com/ChiaYuChang/pwsscraper/internal/scrapers"
