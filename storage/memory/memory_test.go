package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincapp/unlockd/pkg/purchase"
)

func TestMemory_UnlockAndGet(t *testing.T) {
	store := New()
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	err := store.Unlock(ctx, "user_42", purchase.Unlock{SessionID: "cs_abc123", Amount: 500})
	require.NoError(t, err)

	record, err := store.Get(ctx, "user_42")
	require.NoError(t, err)
	assert.True(t, record.Unlocked)
	assert.Equal(t, "user_42", record.UserID)
	assert.Equal(t, "cs_abc123", record.StripeSessionID)
	assert.Equal(t, int64(500), record.PlanAmount)
	assert.False(t, record.PurchaseDate.Before(before))
}

func TestMemory_GetUnknownUser(t *testing.T) {
	store := New()

	_, err := store.Get(context.Background(), "nobody")
	require.ErrorIs(t, err, purchase.ErrPurchaseNotFound)
}

func TestMemory_EmptyUserID(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.Unlock(ctx, "", purchase.Unlock{SessionID: "cs_abc123", Amount: 500})
	require.ErrorIs(t, err, purchase.ErrInvalidUserID)

	_, err = store.Get(ctx, "")
	require.ErrorIs(t, err, purchase.ErrInvalidUserID)
}

func TestMemory_UnlockOverwrites(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Unlock(ctx, "user_42", purchase.Unlock{SessionID: "cs_first", Amount: 500}))
	require.NoError(t, store.Unlock(ctx, "user_42", purchase.Unlock{SessionID: "cs_second", Amount: 700}))

	record, err := store.Get(ctx, "user_42")
	require.NoError(t, err)
	assert.True(t, record.Unlocked)
	assert.Equal(t, "cs_second", record.StripeSessionID)
	assert.Equal(t, int64(700), record.PlanAmount)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Unlock(ctx, "user_42", purchase.Unlock{SessionID: "cs_abc123", Amount: 500}))

	record, err := store.Get(ctx, "user_42")
	require.NoError(t, err)
	record.Unlocked = false
	record.StripeSessionID = "mutated"

	again, err := store.Get(ctx, "user_42")
	require.NoError(t, err)
	assert.True(t, again.Unlocked)
	assert.Equal(t, "cs_abc123", again.StripeSessionID)
}
