package memory

import (
	"context"
	"errors"
	"testing"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/storage"
)

func TestTalentStore_UpsertAndGet(t *testing.T) {
	store := NewTalentStore()
	ctx := context.Background()

	row := &domain.Talent{Name: "alice", WalletAddress: "INJ1Alice", Status: domain.TalentPending}
	if err := store.Upsert(ctx, row); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "inj1alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "alice" {
		t.Errorf("Name mismatch: got %s, want alice", got.Name)
	}

	got.Name = "mutated"
	again, _ := store.Get(ctx, "inj1alice")
	if again.Name != "alice" {
		t.Errorf("store leaked internal pointer: got %s", again.Name)
	}
}

func TestTalentStore_UpsertReplacesInPlace(t *testing.T) {
	store := NewTalentStore()
	ctx := context.Background()

	_ = store.Upsert(ctx, &domain.Talent{Name: "a", WalletAddress: "w1"})
	_ = store.Upsert(ctx, &domain.Talent{Name: "b", WalletAddress: "w2"})
	_ = store.Upsert(ctx, &domain.Talent{Name: "a2", WalletAddress: " W1 "})

	rows, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "a2" || rows[1].Name != "b" {
		t.Errorf("unexpected order: %s, %s", rows[0].Name, rows[1].Name)
	}
}

func TestTalentStore_SetStatus(t *testing.T) {
	store := NewTalentStore()
	ctx := context.Background()

	_ = store.Upsert(ctx, &domain.Talent{WalletAddress: "w1", Status: domain.TalentPending})

	updated, err := store.SetStatus(ctx, "W1", domain.TalentApproved)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if updated.Status != domain.TalentApproved {
		t.Errorf("Status mismatch: got %s", updated.Status)
	}

	if _, err := store.SetStatus(ctx, "missing", domain.TalentApproved); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTalentStore_InvalidInput(t *testing.T) {
	store := NewTalentStore()
	if err := store.Upsert(context.Background(), &domain.Talent{Name: "nobody"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
