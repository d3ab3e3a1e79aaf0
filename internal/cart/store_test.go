package cart

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := New()
	c.AddItem(NewLineItem(1, "Mug", decimal.NewFromInt(1200), "", 1))
	if err := store.Save(ctx, "s", c); err != nil {
		t.Fatalf("save: %v", err)
	}
	c.UpdateQuantity("1", 9)

	loaded, err := store.Load(ctx, "s")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Items[0].Quantity != 1 {
		t.Fatalf("stored cart changed through caller copy: %d", loaded.Items[0].Quantity)
	}
}

func TestMemoryStoreExpiresIdleCarts(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithTTL(time.Hour)
	store.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Save(ctx, "idle", New())
	_ = store.Save(ctx, "active", New())

	now = now.Add(45 * time.Minute)
	if c, _ := store.Load(ctx, "active"); c == nil {
		t.Fatalf("expected active cart before ttl")
	}

	now = now.Add(30 * time.Minute)
	if c, _ := store.Load(ctx, "idle"); c != nil {
		t.Fatalf("expected idle cart to be expired")
	}
	if store.Len() != 1 {
		t.Fatalf("expected expired cart dropped on load, have %d", store.Len())
	}

	now = now.Add(2 * time.Hour)
	removed, err := store.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 || store.Len() != 0 {
		t.Fatalf("expected sweep to remove 1, removed %d, left %d", removed, store.Len())
	}
}

func TestMemoryStoreWithoutTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore()
	store.nowFunc = func() time.Time { return time.Unix(0, 0) }
	_ = store.Save(context.Background(), "s", New())
	store.nowFunc = func() time.Time { return time.Unix(1<<32, 0) }

	removed, _ := store.Sweep(context.Background())
	if removed != 0 || store.Len() != 1 {
		t.Fatalf("expected no expiry without ttl")
	}
}
