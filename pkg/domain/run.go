package domain

import "time"

// RunRecord is the stored outcome of one collector run
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	UpdatedAt  string // payload updated_at
	Count      int
	Note       string
	Sources    []SourceRun
}

// SourceRun is the outcome of one source within a run
type SourceRun struct {
	SourceID string
	Status   Status
	Items    int
	Note     string
}

// NewRunRecord builds the record of a finished run. items are counted per source before merging.
func NewRunRecord(id string, started, finished time.Time, payload Payload, items map[string]int) RunRecord {
	sources := make([]SourceRun, 0, len(payload.Sources))
	for _, s := range payload.Sources {
		sources = append(sources, SourceRun{SourceID: s.ID, Status: s.Status, Items: items[s.ID], Note: s.Note})
	}
	return RunRecord{
		ID:         id,
		StartedAt:  started,
		FinishedAt: finished,
		UpdatedAt:  payload.UpdatedAt,
		Count:      payload.Count,
		Note:       payload.Note,
		Sources:    sources,
	}
}
