package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newStore(t *testing.T, opts ...Option) (*RecordStore, *MemoryBackend, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	backend := NewMemoryBackend()
	return NewRecordStore(backend, zap.New(core), opts...), backend, logs
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, backend, _ := newStore(t)

	items := []item{{ID: "a", Name: "Аня"}, {ID: "b", Name: "Борис"}}
	require.NoError(t, store.Save(ctx, CollectionStudents, items))

	got := Load[item](ctx, store, CollectionStudents)
	assert.ElementsMatch(t, items, got)

	raw, err := backend.Read(ctx, CollectionStudents)
	require.NoError(t, err)

	var env struct {
		Version int `json:"version"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, SchemaVersion, env.Version)
}

func TestLoadMissingCollectionIsEmpty(t *testing.T) {
	store, _, logs := newStore(t)

	got := Load[item](context.Background(), store, CollectionAttendance)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, logs.FilterMessage("Collection unreadable, starting empty").Len())
}

func TestLoadCorruptCollectionIsEmpty(t *testing.T) {
	store, backend, logs := newStore(t)
	backend.Put(CollectionStudents, []byte(`{"version":1,"items":[{"id":`))

	got := Load[item](context.Background(), store, CollectionStudents)
	assert.Empty(t, got)
	assert.Equal(t, 1, logs.FilterMessage("Collection unreadable, starting empty").Len())

	_, err := Fetch[item](context.Background(), store, CollectionStudents)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoadWrongShapeIsEmpty(t *testing.T) {
	store, backend, _ := newStore(t)
	backend.Put(CollectionStudents, []byte(`{"version":1,"items":{"id":"a"}}`))

	assert.Empty(t, Load[item](context.Background(), store, CollectionStudents))
}

func TestLoadNewerSchemaIsIncompatible(t *testing.T) {
	store, backend, _ := newStore(t)
	backend.Put(CollectionStudents, []byte(`{"version":99,"items":[{"id":"a"}]}`))

	_, err := Fetch[item](context.Background(), store, CollectionStudents)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Empty(t, Load[item](context.Background(), store, CollectionStudents))
}

func TestLoadLegacyBareArray(t *testing.T) {
	ctx := context.Background()
	store, backend, _ := newStore(t)
	backend.Put(CollectionStudents, []byte(`[{"id":"a","name":"Аня"}]`))

	got := Load[item](ctx, store, CollectionStudents)
	require.Len(t, got, 1)
	assert.Equal(t, "Аня", got[0].Name)

	require.NoError(t, store.Save(ctx, CollectionStudents, got))
	raw, err := backend.Read(ctx, CollectionStudents)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version":1`)
}

func TestSaveNilSliceWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	store, backend, _ := newStore(t)

	var items []item
	require.NoError(t, store.Save(ctx, CollectionStudents, items))

	raw, err := backend.Read(ctx, CollectionStudents)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"items":[]}`, string(raw))
}

func TestSaveFailureIsSwallowedByDefault(t *testing.T) {
	store, backend, logs := newStore(t)
	backend.FailWrites(true)

	err := store.Save(context.Background(), CollectionStudents, []item{{ID: "a"}})
	assert.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("Failed to save collection").Len())
}

func TestSaveFailureIsReturnedWhenStrict(t *testing.T) {
	store, backend, _ := newStore(t, WithStrictDurability())
	backend.FailWrites(true)

	err := store.Save(context.Background(), CollectionStudents, []item{{ID: "a"}})
	assert.ErrorIs(t, err, ErrWriteRejected)
	assert.True(t, store.Strict())
}
