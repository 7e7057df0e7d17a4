package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFile(dir)
	require.NoError(t, err)

	payload := []byte(`{"department":"CSE"}`)
	require.NoError(t, store.Save(ctx, "timetable_draft", payload))

	loaded, err := store.Load(ctx, "timetable_draft")
	require.NoError(t, err)
	assert.Equal(t, payload, loaded)

	// A fresh handle over the same directory sees the persisted document.
	reopened, err := NewFile(dir)
	require.NoError(t, err)
	loaded, err = reopened.Load(ctx, "timetable_draft")
	require.NoError(t, err)
	assert.Equal(t, payload, loaded)
}

func TestFileStoreMissingAndDelete(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx, "users")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Save(ctx, "users", []byte(`[]`)))
	require.NoError(t, store.Delete(ctx, "users"))
	require.NoError(t, store.Delete(ctx, "users"))

	_, err = store.Load(ctx, "users")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
