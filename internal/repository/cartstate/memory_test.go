package cartstate

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"obak-storefront/internal/domain"
)

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	lines := []domain.CartLine{
		{
			Product: domain.Product{
				ID:    "p1",
				Name:  "بلاط سيراميك فاخر",
				Price: decimal.RequireFromString("45.50"),
			},
			Quantity: 2,
			Variant:  "أبيض",
		},
		{
			Product: domain.Product{
				ID:    "p2",
				Name:  "دهان جوتن فاخر",
				Price: decimal.RequireFromString("35"),
			},
			Quantity: 1,
		},
	}

	if err := store.Save(ctx, "k", lines); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(lines, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory_MissingKeyIsEmptyCart(t *testing.T) {
	got, err := NewMemory().Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil lines for missing key, got %+v", got)
	}
}

func TestMemory_NilSaveClears(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	lines := []domain.CartLine{{Product: domain.Product{ID: "p1"}, Quantity: 1}}
	if err := store.Save(ctx, "k", lines); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "k", nil); err != nil {
		t.Fatalf("clear save: %v", err)
	}
	got, err := store.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected cleared cart, got %+v", got)
	}
}

func TestMemory_KeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Save(ctx, "a", []domain.CartLine{{Product: domain.Product{ID: "p1"}, Quantity: 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "b")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected other key empty, got %+v", got)
	}
}
