package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
)

func TestCheckpointStore_AbsentThenWritten(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	_, err := store.Read(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	checkpoint := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Write(ctx, checkpoint))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(checkpoint))
}

func TestLedgerStore_AppendContainsIDs(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, domain.LedgerUploaded, "f1"))
	require.NoError(t, store.Append(ctx, domain.LedgerUploaded, "f2"))
	require.NoError(t, store.Append(ctx, domain.LedgerUploaded, "f1"))

	ids, err := store.IDs(ctx, domain.LedgerUploaded)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2"}, ids)

	found, err := store.Contains(ctx, domain.LedgerUploaded, "f2")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.Contains(ctx, domain.LedgerUnsupported, "f2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLedgerStore_UnknownSet(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	err := store.Append(ctx, domain.LedgerSet("bogus"), "f1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
