package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/storage"
	"injective-token-lab/internal/storage/postgres"
)

func TestTalentStore(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewTalentStore(pool)
	ctx := context.Background()

	alice := &domain.Talent{
		Name:           "Alice",
		Discord:        "alice#0001",
		WalletAddress:  "inj1Alice",
		Bio:            "builder",
		SubmissionDate: "2024-01-01 10:00:00",
		Status:         domain.TalentPending,
	}
	bob := &domain.Talent{Name: "Bob", WalletAddress: "inj1bob", Status: domain.TalentPending}

	t.Run("upsert and get", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, alice))
		require.NoError(t, store.Upsert(ctx, bob))

		got, err := store.Get(ctx, "INJ1ALICE")
		require.NoError(t, err)
		assert.Equal(t, alice, got)
	})

	t.Run("upsert keeps position", func(t *testing.T) {
		updated := *alice
		updated.Bio = "senior builder"
		require.NoError(t, store.Upsert(ctx, &updated))

		rows, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "senior builder", rows[0].Bio)
		assert.Equal(t, "Bob", rows[1].Name)
	})

	t.Run("status round trip", func(t *testing.T) {
		before, err := store.Get(ctx, "inj1bob")
		require.NoError(t, err)

		approved, err := store.SetStatus(ctx, "inj1bob", domain.TalentApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.TalentApproved, approved.Status)

		back, err := store.SetStatus(ctx, "inj1bob", domain.TalentPending)
		require.NoError(t, err)
		assert.Equal(t, before, back)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.Get(ctx, "inj1nobody")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		_, err = store.SetStatus(ctx, "inj1nobody", domain.TalentRejected)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
