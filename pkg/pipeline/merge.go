package pipeline

import (
	"sort"
	"time"

	"github.com/joolab/newswire/pkg/domain"
	"github.com/joolab/newswire/pkg/feed"
)

// Merge combines per-source results, in registry order, into the payload sources and items.
// Items are deduplicated by url (first occurrence wins), sorted by published_at descending
// with undated and unparsed items last, and capped at maxItems (<= 0 means no cap).
func Merge(results []feed.Result, maxItems int) (sources []domain.SourceStatus, items []domain.NewsItem) {
	sources = make([]domain.SourceStatus, 0, len(results))
	items = []domain.NewsItem{}
	seen := map[string]bool{}

	for _, res := range results {
		sources = append(sources, res.Status)
		for _, item := range res.Items {
			if seen[item.URL] {
				continue
			}
			seen[item.URL] = true
			items = append(items, item)
		}
	}

	// descending string order works for the zero-padded layout, and puts empty keys last
	sort.SliceStable(items, func(i, j int) bool {
		return sortKey(items[i].PublishedAt) > sortKey(items[j].PublishedAt)
	})

	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}
	return sources, items
}

// sortKey returns published_at when it is in the canonical layout, empty otherwise.
// Raw date text is kept for display but ranks with undated items.
func sortKey(published string) string {
	if _, err := time.Parse(feed.TimeLayout, published); err != nil {
		return ""
	}
	return published
}
