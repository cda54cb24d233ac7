package feed

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-pkgz/lgr"
)

// TimeLayout is the canonical published_at format, sortable as a string
const TimeLayout = "2006-01-02 15:04"

// freeTextLen is how much of an unparseable date string is kept
const freeTextLen = 16

// Normalizer converts entry timestamps into the canonical local-time string
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer makes a normalizer for the target zone
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// Normalize picks, in order, the structured published time, the structured updated time,
// then the first free-text date field. Free text is parsed if possible (zone-less means UTC),
// otherwise its first 16 characters are kept as is. Returns empty string if nothing is usable.
func (n *Normalizer) Normalize(e Entry) string {
	if e.Published != nil && !e.Published.IsZero() {
		return e.Published.In(n.loc).Format(TimeLayout)
	}
	if e.Updated != nil && !e.Updated.IsZero() {
		return e.Updated.In(n.loc).Format(TimeLayout)
	}

	for _, raw := range e.DateText {
		text := strings.Join(strings.Fields(raw), " ")
		if text == "" {
			continue
		}
		if t, ok := parseFreeText(text); ok {
			return t.In(n.loc).Format(TimeLayout)
		}
		return truncateRunes(text, freeTextLen)
	}
	return ""
}

// parseFreeText parses a free-text date, a panic in dateparse counts as failure
func parseFreeText(text string) (t time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[DEBUG] date parser panic on %q: %v", text, r)
			ok = false
		}
	}()
	t, err := dateparse.ParseIn(text, time.UTC)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
