package spill

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSpillAndLoadRoundTripsAndConsumesKey(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	store := NewStore(backend)

	doc := sampleDocument()
	ctx := context.Background()

	key, err := store.Spill(ctx, doc)
	require.NoError(t, err)

	files, bytes := store.Metrics()
	assert.Equal(t, uint64(1), files)
	assert.Greater(t, bytes, uint64(0))

	got, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	_, err = store.Load(ctx, key)
	assert.Error(t, err, "a spilled document is consumed exactly once")
}

func TestLocalBackendDeleteOfMissingKeyIsNotAnError(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, backend.Delete(context.Background(), "does-not-exist.bin"))
}
