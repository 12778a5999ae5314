package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
)

func TestLedgerStore_AppendAndContains(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLedgerStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	found, err := store.Contains(ctx, domain.LedgerUploaded, "f1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Append(ctx, domain.LedgerUploaded, "f1"))

	found, err = store.Contains(ctx, domain.LedgerUploaded, "f1")
	require.NoError(t, err)
	assert.True(t, found)

	// Membership is per set.
	found, err = store.Contains(ctx, domain.LedgerFailed, "f1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLedgerStore_AppendIsDuplicateFree(t *testing.T) {
	store, err := NewLedgerStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, domain.LedgerFailed, "f1"))
	require.NoError(t, store.Append(ctx, domain.LedgerFailed, "f1"))
	require.NoError(t, store.Append(ctx, domain.LedgerFailed, "f1"))

	ids, err := store.IDs(ctx, domain.LedgerFailed)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, ids)
}

func TestLedgerStore_PreservesInsertionOrder(t *testing.T) {
	store, err := NewLedgerStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Append(ctx, domain.LedgerUnsupported, id))
	}

	ids, err := store.IDs(ctx, domain.LedgerUnsupported)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestLedgerStore_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewLedgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, domain.LedgerUploaded, "f1"))
	require.NoError(t, store.Append(ctx, domain.LedgerUploaded, "f2"))
	require.NoError(t, store.Append(ctx, domain.LedgerFailed, "f3"))

	// A fresh store over the same directory sees the same sets.
	reopened, err := NewLedgerStore(dir)
	require.NoError(t, err)

	ids, err := reopened.IDs(ctx, domain.LedgerUploaded)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2"}, ids)

	found, err := reopened.Contains(ctx, domain.LedgerFailed, "f3")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestLedgerStore_OnDiskFormat(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewLedgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, domain.LedgerUploaded, "f1"))

	data, err := os.ReadFile(filepath.Join(dir, "uploaded_files.json"))
	require.NoError(t, err)

	var decoded map[string][]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string][]string{"data": {"f1"}}, decoded)
}

func TestLedgerStore_LoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unsupported_type_files.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data": ["x", "y", "x"]}`), 0o600))

	store, err := NewLedgerStore(dir)
	require.NoError(t, err)

	// Duplicates in a hand-edited file collapse on load.
	ids, err := store.IDs(context.Background(), domain.LedgerUnsupported)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)
}

func TestLedgerStore_UnknownSet(t *testing.T) {
	store, err := NewLedgerStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Contains(ctx, domain.LedgerSet("bogus"), "f1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Append(ctx, domain.LedgerSet("bogus"), "f1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
