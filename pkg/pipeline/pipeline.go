// Package pipeline runs one collection pass: ingest every source, merge, persist.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/joolab/newswire/pkg/domain"
	"github.com/joolab/newswire/pkg/feed"
)

//go:generate moq -out mocks/ingestor.go -pkg mocks -skip-ensure -fmt goimports . Ingestor
//go:generate moq -out mocks/writer.go -pkg mocks -skip-ensure -fmt goimports . Writer
//go:generate moq -out mocks/history.go -pkg mocks -skip-ensure -fmt goimports . History

// UpdatedAtLayout is the payload updated_at format, local time with zone abbreviation
const UpdatedAtLayout = "2006-01-02 15:04 MST"

// Ingestor fetches and normalizes one source
type Ingestor interface {
	Ingest(ctx context.Context, src domain.FeedSource) feed.Result
}

// Writer persists payloads
type Writer interface {
	Persist(payload domain.Payload, day time.Time) error
	WriteDegraded(payload domain.Payload) error
}

// History records runs and reports sources that keep failing
type History interface {
	SaveRun(ctx context.Context, run domain.RunRecord) error
	FailureStreak(ctx context.Context, sourceID string) (int, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

// Runner executes collection runs
type Runner struct {
	ingestor     Ingestor
	writer       Writer
	history      History
	sources      []domain.FeedSource
	maxItems     int
	loc          *time.Location
	keepRuns     int
	streakToWarn int
	now          func() time.Time
}

// Params holds Runner dependencies and limits
type Params struct {
	Ingestor     Ingestor
	Writer       Writer
	History      History // optional
	Sources      []domain.FeedSource
	MaxItems     int
	Location     *time.Location
	KeepRuns     int // runs kept in history, 0 disables pruning
	StreakToWarn int // consecutive failed runs before a source is reported, default 3
	Now          func() time.Time
}

// NewRunner makes a Runner
func NewRunner(params Params) *Runner {
	res := &Runner{
		ingestor:     params.Ingestor,
		writer:       params.Writer,
		history:      params.History,
		sources:      params.Sources,
		maxItems:     params.MaxItems,
		loc:          params.Location,
		keepRuns:     params.KeepRuns,
		streakToWarn: params.StreakToWarn,
		now:          params.Now,
	}
	if res.loc == nil {
		res.loc = time.UTC
	}
	if res.streakToWarn <= 0 {
		res.streakToWarn = 3
	}
	if res.now == nil {
		res.now = time.Now
	}
	return res
}

// Execute runs collection and persistence. It never fails: any error or panic results in
// a degraded empty payload written to latest. Returns the payload written (or attempted).
func (r *Runner) Execute(ctx context.Context) (payload domain.Payload) {
	runID := uuid.New().String()
	started := r.now()
	lgr.Printf("[INFO] run %s started, %d sources", runID, len(r.sources))

	var itemsBySource map[string]int
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				payload = Degrade(r.writer, r.updatedAt(r.now()), fmt.Errorf("panic: %v", rec))
			}
		}()
		var err error
		payload, itemsBySource, err = r.Run(ctx)
		if err != nil {
			payload = Degrade(r.writer, r.updatedAt(r.now()), err)
		}
	}()

	r.record(ctx, domain.NewRunRecord(runID, started, r.now(), payload, itemsBySource))
	lgr.Printf("[INFO] run %s finished, %d items, %s", runID, payload.Count, r.now().Sub(started).Round(time.Millisecond))
	return payload
}

// Run ingests all sources sequentially, merges and persists. Returns the payload and per-source
// item counts before merging.
func (r *Runner) Run(ctx context.Context) (domain.Payload, map[string]int, error) {
	results := make([]feed.Result, 0, len(r.sources))
	itemsBySource := make(map[string]int, len(r.sources))
	for _, src := range r.sources {
		res := r.ingestor.Ingest(ctx, src)
		itemsBySource[src.ID] = len(res.Items)
		if !res.OK() {
			lgr.Printf("[WARN] source %s failed: %v", src.ID, res.Err)
		}
		results = append(results, res)
	}

	sources, items := Merge(results, r.maxItems)
	now := r.now().In(r.loc)
	payload := domain.Payload{UpdatedAt: now.Format(UpdatedAtLayout), Sources: sources, Count: len(items), Items: items}

	if err := r.writer.Persist(payload, now); err != nil {
		return payload, itemsBySource, fmt.Errorf("persist: %w", err)
	}
	return payload, itemsBySource, nil
}

// Degrade writes an empty payload with the error as a note and returns it
func Degrade(w Writer, updatedAt string, cause error) domain.Payload {
	lgr.Printf("[ERROR] collector failed: %v", cause)
	payload := domain.EmptyPayload(updatedAt, "collector_error: "+cause.Error())
	if err := w.WriteDegraded(payload); err != nil {
		lgr.Printf("[ERROR] can't write degraded payload: %v", err)
	}
	return payload
}

// record stores the run in history and reports sources failing for too long. History problems are logged only.
func (r *Runner) record(ctx context.Context, run domain.RunRecord) {
	if r.history == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			lgr.Printf("[WARN] run history panic: %v", rec)
		}
	}()

	if err := r.history.SaveRun(ctx, run); err != nil {
		lgr.Printf("[WARN] can't save run %s: %v", run.ID, err)
		return
	}

	for _, s := range run.Sources {
		if !s.Status.Failed() {
			continue
		}
		streak, err := r.history.FailureStreak(ctx, s.SourceID)
		if err != nil {
			lgr.Printf("[WARN] can't get failure streak for %s: %v", s.SourceID, err)
			continue
		}
		if streak >= r.streakToWarn {
			lgr.Printf("[WARN] source %s failed %d runs in a row, last status %s", s.SourceID, streak, s.Status)
		}
	}

	if r.keepRuns > 0 {
		deleted, err := r.history.Prune(ctx, r.keepRuns)
		if err != nil {
			lgr.Printf("[WARN] can't prune run history: %v", err)
			return
		}
		if deleted > 0 {
			lgr.Printf("[DEBUG] pruned %d old runs", deleted)
		}
	}
}

func (r *Runner) updatedAt(t time.Time) string {
	return t.In(r.loc).Format(UpdatedAtLayout)
}
