package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grace/verse-engine/store"
)

func newTestTier(t *testing.T) *Tier {
	t.Helper()
	tier, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { tier.Close() })
	return tier
}

func TestTier_ReadWriteDelete(t *testing.T) {
	tier := newTestTier(t)
	ctx := context.Background()

	_, err := tier.Read(ctx, "events")
	assert.ErrorIs(t, err, store.ErrNoDocument)

	require.NoError(t, tier.Write(ctx, "events", []byte(`[{"id":1}]`)))
	data, err := tier.Read(ctx, "events")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(data))

	// Upsert replaces in place.
	require.NoError(t, tier.Write(ctx, "events", []byte(`[]`)))
	data, err = tier.Read(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, tier.Delete(ctx, "events"))
	_, err = tier.Read(ctx, "events")
	assert.ErrorIs(t, err, store.ErrNoDocument)

	// Deleting an absent document is a no-op.
	require.NoError(t, tier.Delete(ctx, "events"))
}

func TestTier_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	tier, err := New(path)
	require.NoError(t, err)
	require.NoError(t, tier.Write(ctx, "seed_version", []byte("v1")))
	require.NoError(t, tier.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.Read(ctx, "seed_version")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}

func TestTier_WorksUnderStore(t *testing.T) {
	tier := newTestTier(t)
	s := store.New(nil, tier)
	ctx := context.Background()

	require.NoError(t, s.SetSeedVersion(ctx, "2025-07-23T12:00:00Z"))
	assert.Equal(t, "2025-07-23T12:00:00Z", s.SeedVersion(ctx))
}
