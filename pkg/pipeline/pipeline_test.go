package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joolab/newswire/pkg/domain"
	"github.com/joolab/newswire/pkg/feed"
	"github.com/joolab/newswire/pkg/pipeline/mocks"
)

var kst = time.FixedZone("KST", 9*60*60)

func fixedNow() time.Time { return time.Date(2024, 1, 1, 1, 30, 0, 0, time.UTC) }

func testSources() []domain.FeedSource {
	return []domain.FeedSource{
		{ID: "A", Name: "Alpha", URL: "https://example.com/a"},
		{ID: "B", Name: "Beta", URL: "https://example.com/b"},
	}
}

func okWriter() *mocks.WriterMock {
	return &mocks.WriterMock{
		PersistFunc:       func(domain.Payload, time.Time) error { return nil },
		WriteDegradedFunc: func(domain.Payload) error { return nil },
	}
}

// ingestorAB returns three items for A and a fetch error for B
func ingestorAB() *mocks.IngestorMock {
	return &mocks.IngestorMock{IngestFunc: func(_ context.Context, src domain.FeedSource) feed.Result {
		if src.ID == "B" {
			return feed.Result{Status: domain.NewStatus(src, domain.StatusError, "boom"), Items: []domain.NewsItem{},
				Err: errors.New("boom")}
		}
		items := []domain.NewsItem{}
		for i := range 3 {
			items = append(items, domain.NewsItem{Source: src.ID, Press: src.Name, PublishedAt: fmt.Sprintf("2024-01-01 0%d:00", i),
				Title: fmt.Sprintf("title %d", i), URL: fmt.Sprintf("https://example.com/a/%d", i), KeywordsHit: []string{}})
		}
		return feed.Result{Status: domain.NewStatus(src, domain.StatusOK, ""), Items: items}
	}}
}

func TestRunner_Execute(t *testing.T) {
	writer := okWriter()
	ingestor := ingestorAB()
	r := NewRunner(Params{Ingestor: ingestor, Writer: writer, Sources: testSources(), MaxItems: 250,
		Location: kst, Now: fixedNow})

	payload := r.Execute(context.Background())

	require.Len(t, ingestor.IngestCalls(), 2)
	assert.Equal(t, "A", ingestor.IngestCalls()[0].Src.ID)
	assert.Equal(t, "B", ingestor.IngestCalls()[1].Src.ID)

	assert.Equal(t, "2024-01-01 10:30 KST", payload.UpdatedAt)
	require.Len(t, payload.Sources, 2)
	assert.Equal(t, domain.StatusOK, payload.Sources[0].Status)
	assert.Equal(t, domain.StatusError, payload.Sources[1].Status)
	assert.Len(t, payload.Items, 3)
	assert.Equal(t, 3, payload.Count)
	assert.Equal(t, "https://example.com/a/2", payload.Items[0].URL)
	assert.Empty(t, payload.Note)

	require.Len(t, writer.PersistCalls(), 1)
	assert.Equal(t, payload, writer.PersistCalls()[0].Payload)
	assert.Equal(t, "2024-01-01", writer.PersistCalls()[0].Day.Format("2006-01-02"))
	assert.Empty(t, writer.WriteDegradedCalls())
}

func TestRunner_ExecuteLocalDay(t *testing.T) {
	writer := okWriter()
	now := func() time.Time { return time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC) } // 01:00 next day in seoul
	r := NewRunner(Params{Ingestor: ingestorAB(), Writer: writer, Sources: testSources(), Location: kst, Now: now})

	payload := r.Execute(context.Background())
	assert.Equal(t, "2024-01-02 01:00 KST", payload.UpdatedAt)
	require.Len(t, writer.PersistCalls(), 1)
	assert.Equal(t, "2024-01-02", writer.PersistCalls()[0].Day.Format("2006-01-02"))
}

func TestRunner_ExecuteMaxItems(t *testing.T) {
	r := NewRunner(Params{Ingestor: ingestorAB(), Writer: okWriter(), Sources: testSources(), MaxItems: 2,
		Location: kst, Now: fixedNow})

	payload := r.Execute(context.Background())
	assert.Equal(t, 2, payload.Count)
	assert.Len(t, payload.Items, 2)
}

func TestRunner_ExecutePersistFailure(t *testing.T) {
	writer := okWriter()
	writer.PersistFunc = func(domain.Payload, time.Time) error { return errors.New("disk full") }
	r := NewRunner(Params{Ingestor: ingestorAB(), Writer: writer, Sources: testSources(), Location: kst, Now: fixedNow})

	payload := r.Execute(context.Background())

	assert.Equal(t, domain.EmptyPayload("2024-01-01 10:30 KST", "collector_error: persist: disk full"), payload)
	require.Len(t, writer.WriteDegradedCalls(), 1)
	assert.Equal(t, payload, writer.WriteDegradedCalls()[0].Payload)
}

func TestRunner_ExecutePanic(t *testing.T) {
	writer := okWriter()
	ingestor := &mocks.IngestorMock{IngestFunc: func(context.Context, domain.FeedSource) feed.Result { panic("unexpected") }}
	r := NewRunner(Params{Ingestor: ingestor, Writer: writer, Sources: testSources(), Location: kst, Now: fixedNow})

	var payload domain.Payload
	require.NotPanics(t, func() { payload = r.Execute(context.Background()) })
	assert.Equal(t, "collector_error: panic: unexpected", payload.Note)
	assert.Equal(t, 0, payload.Count)
	assert.Empty(t, writer.PersistCalls())
	require.Len(t, writer.WriteDegradedCalls(), 1)
}

func TestRunner_ExecuteDegradedWriteFails(t *testing.T) {
	writer := &mocks.WriterMock{
		PersistFunc:       func(domain.Payload, time.Time) error { return errors.New("read-only") },
		WriteDegradedFunc: func(domain.Payload) error { return errors.New("read-only") },
	}
	r := NewRunner(Params{Ingestor: ingestorAB(), Writer: writer, Sources: testSources(), Location: kst, Now: fixedNow})

	var payload domain.Payload
	require.NotPanics(t, func() { payload = r.Execute(context.Background()) })
	assert.Equal(t, "collector_error: persist: read-only", payload.Note)
}

func TestRunner_History(t *testing.T) {
	t.Run("records run and warns on streaks", func(t *testing.T) {
		history := &mocks.HistoryMock{
			SaveRunFunc:       func(context.Context, domain.RunRecord) error { return nil },
			FailureStreakFunc: func(context.Context, string) (int, error) { return 3, nil },
			PruneFunc:         func(context.Context, int) (int64, error) { return 1, nil },
		}
		r := NewRunner(Params{Ingestor: ingestorAB(), Writer: okWriter(), History: history, Sources: testSources(),
			Location: kst, KeepRuns: 180, Now: fixedNow})

		r.Execute(context.Background())

		require.Len(t, history.SaveRunCalls(), 1)
		run := history.SaveRunCalls()[0].Run
		assert.Len(t, run.ID, 36)
		assert.Equal(t, "2024-01-01 10:30 KST", run.UpdatedAt)
		assert.Equal(t, 3, run.Count)
		assert.Equal(t, []domain.SourceRun{
			{SourceID: "A", Status: domain.StatusOK, Items: 3},
			{SourceID: "B", Status: domain.StatusError, Items: 0, Note: "boom"},
		}, run.Sources)

		require.Len(t, history.FailureStreakCalls(), 1, "only failed sources are checked")
		assert.Equal(t, "B", history.FailureStreakCalls()[0].SourceID)
		require.Len(t, history.PruneCalls(), 1)
		assert.Equal(t, 180, history.PruneCalls()[0].Keep)
	})

	t.Run("history errors don't affect the run", func(t *testing.T) {
		history := &mocks.HistoryMock{
			SaveRunFunc: func(context.Context, domain.RunRecord) error { return errors.New("db locked") },
		}
		writer := okWriter()
		r := NewRunner(Params{Ingestor: ingestorAB(), Writer: writer, History: history, Sources: testSources(),
			Location: kst, KeepRuns: 10, Now: fixedNow})

		payload := r.Execute(context.Background())
		assert.Equal(t, 3, payload.Count)
		assert.Empty(t, writer.WriteDegradedCalls())
		assert.Len(t, history.SaveRunCalls(), 1)
	})

	t.Run("degraded run recorded with note", func(t *testing.T) {
		history := &mocks.HistoryMock{
			SaveRunFunc: func(context.Context, domain.RunRecord) error { return nil },
		}
		writer := okWriter()
		writer.PersistFunc = func(domain.Payload, time.Time) error { return errors.New("disk full") }
		r := NewRunner(Params{Ingestor: ingestorAB(), Writer: writer, History: history, Sources: testSources(),
			Location: kst, Now: fixedNow})

		r.Execute(context.Background())
		require.Len(t, history.SaveRunCalls(), 1)
		run := history.SaveRunCalls()[0].Run
		assert.Equal(t, "collector_error: persist: disk full", run.Note)
		assert.Empty(t, run.Sources)
	})
}

func TestDegrade(t *testing.T) {
	writer := okWriter()
	payload := Degrade(writer, "2024-01-01 10:30 KST", errors.New("load config: bad yaml"))
	assert.Equal(t, "collector_error: load config: bad yaml", payload.Note)
	assert.NotNil(t, payload.Items)
	assert.NotNil(t, payload.Sources)
	require.Len(t, writer.WriteDegradedCalls(), 1)
}
