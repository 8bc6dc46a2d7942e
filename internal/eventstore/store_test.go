package eventstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBuildID = "build-1"

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_AppendAndRetrieve(t *testing.T) {
	store := newMemoryStore(t)
	ctx := t.Context()

	payload := []byte(`{"test":"data"}`)
	require.NoError(t, store.Append(ctx, testBuildID, "TestEvent", payload, map[string]string{"key": "value"}))
	require.NoError(t, store.Append(ctx, "other", "TestEvent", payload, nil))

	events, err := store.GetByBuildID(ctx, testBuildID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	assert.Positive(t, event.ID())
	assert.Equal(t, testBuildID, event.BuildID())
	assert.Equal(t, "TestEvent", event.Type())
	assert.Equal(t, payload, event.Payload())
	assert.Equal(t, "value", event.Metadata()["key"])
	assert.WithinDuration(t, time.Now(), event.Timestamp(), time.Minute)

	events, err = store.GetByBuildID(ctx, "other")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Metadata())
}

func TestSQLiteStore_GetRange(t *testing.T) {
	store := newMemoryStore(t)
	ctx := t.Context()

	for range 3 {
		require.NoError(t, store.Append(ctx, testBuildID, "TestEvent", []byte(`{}`), nil))
	}

	now := time.Now()
	events, err := store.GetRange(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Less(t, events[0].ID(), events[2].ID())

	events, err = store.GetRange(ctx, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSQLiteStore_FilePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	ev, err := NewBuildStarted(testBuildID, "http://example.com/", "xml")
	require.NoError(t, err)
	require.NoError(t, Record(t.Context(), store, ev))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	events, err := reopened.GetByBuildID(t.Context(), testBuildID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, TypeBuildStarted, events[0].Type())
	assert.JSONEq(t, `{"site_url":"http://example.com/","format":"xml"}`, string(events[0].Payload()))
}

func TestSQLiteStore_ClosedStoreErrors(t *testing.T) {
	store, err := NewSQLiteStore(MemoryPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.Append(t.Context(), testBuildID, "TestEvent", []byte(`{}`), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEventAppendFailed))

	_, err = store.GetByBuildID(t.Context(), testBuildID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEventQueryFailed))
}
