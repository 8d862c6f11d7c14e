package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grace/verse-engine/core"
	"github.com/grace/verse-engine/seed"
	"github.com/grace/verse-engine/store"
)

var bootNow = time.Date(2025, time.July, 23, 12, 0, 0, 0, time.UTC)

func newOrchestrator(st *store.Store, assets AssetSource) *Orchestrator {
	return &Orchestrator{
		Store:  st,
		Assets: assets,
		Now:    func() time.Time { return bootNow },
	}
}

func writeSeedAsset(t *testing.T, dir, version string) {
	t.Helper()
	doc := seed.Document{
		SeedVersion: version,
		Verses: []core.Verse{
			{ID: 1, Date: "2025-07-23", Reference: "창세기 1장 3절", Content: "빛이 있으라", AgeGroup: core.AgeElementary},
		},
		MonthlyVerses: []core.MonthlyVerse{
			{ID: 1, Year: 2025, Month: 7, Reference: "시편 119편 105절", Content: "주의 말씀은"},
		},
		Events: []core.Event{
			{ID: 1, Date: "2025-07-25", Title: "여름성경학교", Description: "시드 행사"},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, SeedFileName), data, 0o644))
}

func TestRun_NoAssetsStillReachesDone(t *testing.T) {
	// GIVEN an empty store and an empty asset directory
	st := store.New(nil, store.NewMemory())
	o := newOrchestrator(st, DirAssets{Dir: t.TempDir()})

	// WHEN the chain runs
	res := o.Run(context.Background())

	// THEN it finishes with no failures and nothing is empty
	assert.Empty(t, res.Failed)
	assert.Equal(t, StepDone, res.Completed[len(res.Completed)-1])
	assert.Equal(t, DefaultStartRoute, res.StartRoute)

	events, err := st.Events(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, events, "builtin events injected")

	verses, err := st.Verses(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, verses, "builtin verses injected")

	assert.NotEmpty(t, st.Cache().Events(), "cache is warm at DONE")
}

func TestRun_SeedsFromAsset(t *testing.T) {
	dir := t.TempDir()
	writeSeedAsset(t, dir, "v1")
	st := store.New(nil, store.NewMemory())

	res := newOrchestrator(st, DirAssets{Dir: dir}).Run(context.Background())

	assert.True(t, res.Seeded)
	assert.Empty(t, res.Failed)
	assert.Equal(t, "v1", st.SeedVersion(context.Background()))

	verses, err := st.Verses(context.Background())
	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Equal(t, "창세기 1장 3절", verses[0].Reference)

	events, err := st.Events(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "여름성경학교", events[0].Title)
}

func TestRun_UnchangedSeedDoesNotReseed(t *testing.T) {
	dir := t.TempDir()
	writeSeedAsset(t, dir, "v1")
	st := store.New(nil, store.NewMemory())
	ctx := context.Background()

	first := newOrchestrator(st, DirAssets{Dir: dir}).Run(ctx)
	require.True(t, first.Seeded)

	second := newOrchestrator(st, DirAssets{Dir: dir}).Run(ctx)
	assert.False(t, second.Seeded, "same version and non-empty events")
	assert.Empty(t, second.Failed)

	// The launch-time verse clear still gets refilled.
	verses, err := st.Verses(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, verses)
}

func TestRun_VersionBumpReseeds(t *testing.T) {
	dir := t.TempDir()
	writeSeedAsset(t, dir, "v1")
	st := store.New(nil, store.NewMemory())
	ctx := context.Background()

	require.True(t, newOrchestrator(st, DirAssets{Dir: dir}).Run(ctx).Seeded)

	writeSeedAsset(t, dir, "v2")
	res := newOrchestrator(st, DirAssets{Dir: dir}).Run(ctx)
	assert.True(t, res.Seeded)
	assert.Equal(t, "v2", st.SeedVersion(ctx))
}

func TestRun_ReseedMergesUserEvents(t *testing.T) {
	dir := t.TempDir()
	writeSeedAsset(t, dir, "v1")
	st := store.New(nil, store.NewMemory())
	ctx := context.Background()

	require.True(t, newOrchestrator(st, DirAssets{Dir: dir}).Run(ctx).Seeded)

	// The user adds an event between launches.
	_, err := st.AppendEvent(ctx, core.Event{ID: 99, Date: "2025-08-15", Title: "직접 추가한 행사"})
	require.NoError(t, err)

	writeSeedAsset(t, dir, "v2")
	newOrchestrator(st, DirAssets{Dir: dir}).Run(ctx)

	events, err := st.Events(ctx)
	require.NoError(t, err)
	titles := make([]string, 0, len(events))
	for _, ev := range events {
		titles = append(titles, ev.Title)
	}
	assert.Contains(t, titles, "직접 추가한 행사", "user data survives a reseed")
	assert.Contains(t, titles, "여름성경학교")
}

func TestRun_AppliesStartRoutePreference(t *testing.T) {
	st := store.New(nil, store.NewMemory())
	ctx := context.Background()
	require.NoError(t, st.SetPreferences(ctx, core.Preferences{StartRoute: "calendar"}))

	res := newOrchestrator(st, DirAssets{Dir: t.TempDir()}).Run(ctx)
	assert.Equal(t, "calendar", res.StartRoute)
}

func TestRun_NilAssetsDegradeQuietly(t *testing.T) {
	st := store.New(nil, store.NewMemory())

	res := newOrchestrator(st, nil).Run(context.Background())

	assert.Empty(t, res.Failed)
	assert.Equal(t, StepDone, res.Completed[len(res.Completed)-1])
}

// recorder captures notifier calls in order.
type recorder struct {
	calls []string
	items []core.NotificationSchedule
}

func (r *recorder) Schedule(_ context.Context, items []core.NotificationSchedule) error {
	r.calls = append(r.calls, "schedule")
	r.items = items
	return nil
}

func (r *recorder) CancelAll(context.Context) error {
	r.calls = append(r.calls, "cancel")
	return nil
}

func TestRun_ReschedulesNotifications(t *testing.T) {
	st := store.New(nil, store.NewMemory())
	ctx := context.Background()
	require.NoError(t, st.SetPreferences(ctx, core.Preferences{
		AlarmOn:        true,
		AlarmSchedules: []core.NotificationSchedule{{Weekday: 7, Time: "09:00"}},
	}))

	rec := &recorder{}
	o := newOrchestrator(st, nil)
	o.Notifier = rec
	o.Run(ctx)

	assert.Equal(t, []string{"cancel", "schedule"}, rec.calls)
	require.Len(t, rec.items, 1)
	assert.Equal(t, 7, rec.items[0].Weekday)
}

func TestReschedule_AlarmOffOnlyCancels(t *testing.T) {
	st := store.New(nil, store.NewMemory())
	ctx := context.Background()
	require.NoError(t, st.SetPreferences(ctx, core.Preferences{
		AlarmOn:        false,
		AlarmSchedules: []core.NotificationSchedule{{Weekday: 1, Time: "08:00"}},
	}))

	rec := &recorder{}
	require.NoError(t, Reschedule(ctx, st, rec, nil))
	assert.Equal(t, []string{"cancel"}, rec.calls)
}
