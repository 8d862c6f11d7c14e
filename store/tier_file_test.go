package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTier_ReadWriteDelete(t *testing.T) {
	dir := t.TempDir()
	tier := NewFile("test-file", dir)
	ctx := context.Background()

	_, err := tier.Read(ctx, DocVerses)
	assert.ErrorIs(t, err, ErrNoDocument)

	require.NoError(t, tier.Write(ctx, DocVerses, []byte(`[{"id":1}]`)))
	assert.FileExists(t, filepath.Join(dir, "verses.json"))

	data, err := tier.Read(ctx, DocVerses)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(data))

	require.NoError(t, tier.Delete(ctx, DocVerses))
	_, err = tier.Read(ctx, DocVerses)
	assert.ErrorIs(t, err, ErrNoDocument)

	require.NoError(t, tier.Delete(ctx, DocVerses), "absent delete is a no-op")
}

func TestFileTier_CreatesDirectoryOnDemand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	tier := NewFile("test-file", dir)

	require.NoError(t, tier.Write(context.Background(), DocEvents, []byte("[]")))
	_, err := os.Stat(filepath.Join(dir, "events.json"))
	assert.NoError(t, err)
}

func TestFileTier_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	tier := NewFile("test-file", dir)
	require.NoError(t, tier.Write(context.Background(), DocEvents, []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "events.json", entries[0].Name())
}
