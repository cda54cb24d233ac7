package domain

// FeedSource represents a configured news feed
type FeedSource struct {
	ID   string // short stable code, e.g. HK
	Name string // display name of the press
	URL  string
}

// Status represents the outcome of ingesting one feed source
type Status string

// enum of source statuses
const (
	StatusOK       Status = "OK"
	StatusDegraded Status = "DEGRADED" // malformed feed, entries recovered best-effort
	StatusMissing  Status = "MISSING"  // feed fetched but had no entries
	StatusError    Status = "ERROR"    // fetch or parse failed
)

// Failed reports whether the status means no usable data came from the source
func (s Status) Failed() bool {
	return s == StatusError || s == StatusMissing
}

// SourceStatus is reported once per configured source per run
type SourceStatus struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Feed   string `json:"feed"`
	Status Status `json:"status"`
	Note   string `json:"note,omitempty"`
}

// NewStatus makes a status record for the source
func NewStatus(src FeedSource, status Status, note string) SourceStatus {
	return SourceStatus{ID: src.ID, Name: src.Name, Feed: src.URL, Status: status, Note: note}
}
