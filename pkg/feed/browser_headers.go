package feed

import (
	"math/rand"
)

// acceptLanguages contains common browser Accept-Language values, korean first
var acceptLanguages = []string{
	"ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7",
	"ko-KR,ko;q=0.9",
	"ko,en-US;q=0.9,en;q=0.8",
	"en-US,en;q=0.9,ko;q=0.8",
}

// browserHeaders makes browser-like headers for feed fetching,
// some korean press sites reject requests without them
func browserHeaders(userAgent string) map[string]string {
	headers := map[string]string{
		"User-Agent": userAgent,
		// accept header for feeds - include both RSS and HTML
		"Accept":        "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,text/html;q=0.7,*/*;q=0.5",
		"Cache-Control": "no-cache",
		// randomized language
		"Accept-Language": acceptLanguages[rand.Intn(len(acceptLanguages))], //nolint:gosec // non-cryptographic randomness is fine for header variation
	}

	// dnt - 30% chance
	if rand.Float32() < 0.3 { //nolint:gosec // non-cryptographic randomness is fine
		headers["DNT"] = "1"
	}
	return headers
}
