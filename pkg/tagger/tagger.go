// Package tagger matches titles against a fixed keyword vocabulary.
package tagger

import "strings"

// Tagger reports which vocabulary keywords occur in a title
type Tagger struct {
	vocab []string
	limit int
}

// New makes a tagger for the vocabulary. Empty and repeated keywords are dropped,
// limit <= 0 means no cap.
func New(vocab []string, limit int) *Tagger {
	seen := make(map[string]struct{}, len(vocab))
	clean := make([]string, 0, len(vocab))
	for _, kw := range vocab {
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		clean = append(clean, kw)
	}
	return &Tagger{vocab: clean, limit: limit}
}

// Tag returns matched keywords in vocabulary order. Matching is case-sensitive
// substring containment on the whitespace-collapsed title. Never returns nil.
func (t *Tagger) Tag(title string) []string {
	hits := []string{}
	text := strings.Join(strings.Fields(title), " ")
	if text == "" {
		return hits
	}
	for _, kw := range t.vocab {
		if t.limit > 0 && len(hits) >= t.limit {
			break
		}
		if strings.Contains(text, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}
