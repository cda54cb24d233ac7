package domain

// NewsItem is a normalized feed entry. Title and URL are never empty.
type NewsItem struct {
	Source      string   `json:"source"`
	Press       string   `json:"press"`
	PublishedAt string   `json:"published_at"` // YYYY-MM-DD HH:MM in the target zone, or empty
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	KeywordsHit []string `json:"keywords_hit"`
}

// Payload is the unit of persistence, written to latest.json
type Payload struct {
	UpdatedAt string         `json:"updated_at"`
	Sources   []SourceStatus `json:"sources"`
	Count     int            `json:"count"`
	Items     []NewsItem     `json:"items"`
	Note      string         `json:"note,omitempty"` // diagnostic for degraded runs
}

// ArchiveEntry is the per-day projection of a payload
type ArchiveEntry struct {
	Date      string     `json:"date"`
	UpdatedAt string     `json:"updated_at"`
	Count     int        `json:"count"`
	Items     []NewsItem `json:"items"`
}

// DateIndex lists the dates having an archive, most recent first
type DateIndex struct {
	UpdatedAt string   `json:"updated_at"`
	Dates     []string `json:"dates"`
}

// Archive makes the per-day projection of the payload
func (p Payload) Archive(date string) ArchiveEntry {
	return ArchiveEntry{Date: date, UpdatedAt: p.UpdatedAt, Count: p.Count, Items: p.Items}
}

// EmptyPayload makes a degraded payload with no sources and no items
func EmptyPayload(updatedAt, note string) Payload {
	return Payload{UpdatedAt: updatedAt, Sources: []SourceStatus{}, Count: 0, Items: []NewsItem{}, Note: note}
}
