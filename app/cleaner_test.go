package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grace/verse-engine/core"
	"github.com/grace/verse-engine/store"
)

func TestPruneOnce_DropsFinishedEvents(t *testing.T) {
	ctx := context.Background()
	st := store.New(nil, store.NewMemory())
	require.NoError(t, st.SetEvents(ctx, []core.Event{
		{ID: 1, Date: "2025-07-20", Title: "지난 행사"},
		{ID: 2, Date: "2025-07-23", Title: "오늘 행사"},
		{ID: 3, Date: "2025-07-30", Title: "다가올 행사"},
		{ID: 4, Date: "2025-07-18", Title: "진행중 수양회", StartDate: "2025-07-18", EndDate: "2025-07-24"},
	}))

	noon := time.Date(2025, time.July, 23, 12, 0, 0, 0, time.UTC)
	c := NewCleaner(st, nil).WithClock(func() time.Time { return noon })

	removed, err := c.PruneOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	events, err := st.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.NotEqual(t, "지난 행사", ev.Title)
	}
}

func TestPruneOnce_GracePeriodBeforeOne(t *testing.T) {
	// At 00:30 the operational day is still yesterday, so an event that
	// ended yesterday survives the overnight pass.
	ctx := context.Background()
	st := store.New(nil, store.NewMemory())
	require.NoError(t, st.SetEvents(ctx, []core.Event{
		{ID: 1, Date: "2025-07-22", Title: "어제 행사"},
	}))

	smallHours := time.Date(2025, time.July, 23, 0, 30, 0, 0, time.UTC)
	c := NewCleaner(st, nil).WithClock(func() time.Time { return smallHours })

	removed, err := c.PruneOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	afterOne := time.Date(2025, time.July, 23, 1, 30, 0, 0, time.UTC)
	c.WithClock(func() time.Time { return afterOne })
	removed, err = c.PruneOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestPruneOnce_DedupsSurvivors(t *testing.T) {
	ctx := context.Background()
	st := store.New(nil, store.NewMemory())
	require.NoError(t, st.SetEvents(ctx, []core.Event{
		{ID: 1, Date: "2025-07-30", Title: "중복 행사"},
		{ID: 2, Date: "2025-07-30", Title: "중복 행사"},
	}))

	noon := time.Date(2025, time.July, 23, 12, 0, 0, 0, time.UTC)
	c := NewCleaner(st, nil).WithClock(func() time.Time { return noon })

	removed, err := c.PruneOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestPruneOnce_NoChangeWritesNothing(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	st := store.New(nil, mem)
	require.NoError(t, st.SetEvents(ctx, []core.Event{{ID: 1, Date: "2025-07-30", Title: "행사"}}))
	before, err := mem.Read(ctx, store.DocEvents)
	require.NoError(t, err)

	noon := time.Date(2025, time.July, 23, 12, 0, 0, 0, time.UTC)
	c := NewCleaner(st, nil).WithClock(func() time.Time { return noon })
	removed, err := c.PruneOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	after, err := mem.Read(ctx, store.DocEvents)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestNextRun(t *testing.T) {
	loc := time.UTC

	beforeBoundary := time.Date(2025, time.July, 23, 0, 45, 0, 0, loc)
	assert.Equal(t, time.Date(2025, time.July, 23, 1, 30, 0, 0, loc), nextRun(beforeBoundary))

	afterBoundary := time.Date(2025, time.July, 23, 9, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, time.July, 24, 1, 30, 0, 0, loc), nextRun(afterBoundary))

	exactly := time.Date(2025, time.July, 23, 1, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, time.July, 24, 1, 30, 0, 0, loc), nextRun(exactly))
}

func TestCleaner_StopIsIdempotent(t *testing.T) {
	st := store.New(nil, store.NewMemory())
	c := NewCleaner(st, nil)
	c.Start(context.Background())
	c.Stop()
	c.Stop()
}
