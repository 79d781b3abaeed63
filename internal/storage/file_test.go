package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileBackendReadWrite(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	backend, err := NewFileBackend(dir)
	require.NoError(t, err)

	_, err = backend.Read(ctx, CollectionStudents)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Write(ctx, CollectionStudents, []byte(`[1]`)))
	require.NoError(t, backend.Write(ctx, CollectionStudents, []byte(`[1,2]`)))

	data, err := backend.Read(ctx, CollectionStudents)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, CollectionStudents+".json", entries[0].Name())
}

func TestFileBackendRejectsUnsafeKey(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	err = backend.Write(context.Background(), "../escape", []byte(`[]`))
	assert.Error(t, err)
}

func TestFileBackendSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileBackend(dir)
	require.NoError(t, err)
	store := NewRecordStore(first, zap.NewNop())
	require.NoError(t, store.Save(ctx, CollectionAttendance, []item{{ID: "r1"}, {ID: "r2"}}))

	second, err := NewFileBackend(dir)
	require.NoError(t, err)
	reopened := NewRecordStore(second, zap.NewNop())
	assert.ElementsMatch(t, []item{{ID: "r1"}, {ID: "r2"}}, Load[item](ctx, reopened, CollectionAttendance))
}
