package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/joolab/newswire/pkg/domain"
)

// History keeps the outcome of every run, used to spot sources that keep failing
type History struct {
	db *sqlx.DB
}

// runSQL represents a run for SQL operations
type runSQL struct {
	Seq        int64     `db:"seq"`
	ID         string    `db:"id"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	UpdatedAt  string    `db:"updated_at"`
	ItemCount  int       `db:"item_count"`
	Note       string    `db:"note"`
}

// sourceRunSQL represents a per-source outcome for SQL operations
type sourceRunSQL struct {
	RunID     string `db:"run_id"`
	SourceID  string `db:"source_id"`
	Status    string `db:"status"`
	ItemCount int    `db:"item_count"`
	Note      string `db:"note"`
}

// NewHistory opens the history database, creating the schema if needed
func NewHistory(ctx context.Context, cfg Config) (*History, error) {
	db, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &History{db: db}, nil
}

// Close closes the database connection
func (h *History) Close() error {
	return h.db.Close()
}

// SaveRun stores the run with all its source outcomes in one transaction
func (h *History) SaveRun(ctx context.Context, run domain.RunRecord) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		if err := h.saveRun(ctx, run); err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("save run %s: %w", run.ID, err)}
		}
		return nil
	}, errCritical)
}

func (h *History) saveRun(ctx context.Context, run domain.RunRecord) error {
	tx, err := h.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	r := runSQL{
		ID:         run.ID,
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt.UTC(),
		UpdatedAt:  run.UpdatedAt,
		ItemCount:  run.Count,
		Note:       run.Note,
	}
	query := `
		INSERT INTO runs (id, started_at, finished_at, updated_at, item_count, note)
		VALUES (:id, :started_at, :finished_at, :updated_at, :item_count, :note)
	`
	if _, err := tx.NamedExecContext(ctx, query, r); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, s := range run.Sources {
		sr := sourceRunSQL{RunID: run.ID, SourceID: s.SourceID, Status: string(s.Status), ItemCount: s.Items, Note: s.Note}
		query := `
			INSERT INTO source_runs (run_id, source_id, status, item_count, note)
			VALUES (:run_id, :source_id, :status, :item_count, :note)
		`
		if _, err := tx.NamedExecContext(ctx, query, sr); err != nil {
			return fmt.Errorf("insert source run %s: %w", s.SourceID, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first, with their source outcomes
func (h *History) RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	var runs []runSQL
	query := `SELECT seq, id, started_at, finished_at, updated_at, item_count, note FROM runs ORDER BY seq DESC LIMIT ?`
	if err := h.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("get recent runs: %w", err)
	}

	res := make([]domain.RunRecord, 0, len(runs))
	for _, r := range runs {
		var sources []sourceRunSQL
		query := `SELECT run_id, source_id, status, item_count, note FROM source_runs WHERE run_id = ? ORDER BY rowid`
		if err := h.db.SelectContext(ctx, &sources, query, r.ID); err != nil {
			return nil, fmt.Errorf("get source runs for %s: %w", r.ID, err)
		}

		rec := domain.RunRecord{
			ID:         r.ID,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
			UpdatedAt:  r.UpdatedAt,
			Count:      r.ItemCount,
			Note:       r.Note,
			Sources:    make([]domain.SourceRun, 0, len(sources)),
		}
		for _, s := range sources {
			rec.Sources = append(rec.Sources, domain.SourceRun{
				SourceID: s.SourceID, Status: domain.Status(s.Status), Items: s.ItemCount, Note: s.Note,
			})
		}
		res = append(res, rec)
	}
	return res, nil
}

// FailureStreak counts the consecutive most recent runs in which the source was ERROR or MISSING
func (h *History) FailureStreak(ctx context.Context, sourceID string) (int, error) {
	var statuses []string
	query := `
		SELECT sr.status FROM source_runs sr
		JOIN runs r ON r.id = sr.run_id
		WHERE sr.source_id = ?
		ORDER BY r.seq DESC
	`
	if err := h.db.SelectContext(ctx, &statuses, query, sourceID); err != nil {
		return 0, fmt.Errorf("get statuses for %s: %w", sourceID, err)
	}

	streak := 0
	for _, s := range statuses {
		if !domain.Status(s).Failed() {
			break
		}
		streak++
	}
	return streak, nil
}

// Prune keeps the newest keep runs and deletes the rest, returns the number of deleted runs
func (h *History) Prune(ctx context.Context, keep int) (int64, error) {
	var cutoff int64
	err := h.db.GetContext(ctx, &cutoff, `SELECT seq FROM runs ORDER BY seq DESC LIMIT 1 OFFSET ?`, keep)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find prune cutoff: %w", err)
	}

	tx, err := h.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM source_runs WHERE run_id IN (SELECT id FROM runs WHERE seq <= ?)`, cutoff); err != nil {
		return 0, fmt.Errorf("delete source runs: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE seq <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get deleted count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return deleted, nil
}
