package service

import (
	"context"
	"testing"

	"github.com/superpos/terminal-api/internal/infrastructure/memory"
)

func TestCartAddProduct(t *testing.T) {
	ctx := context.Background()
	cart := NewCartService(memory.NewProductRepository(memory.SeedProducts()))

	t.Run("unknown product -> not found", func(t *testing.T) {
		if _, err := cart.AddProduct(ctx, "missing"); err == nil {
			t.Fatal("expected error for unknown product")
		}
	})

	t.Run("first add inserts with quantity 1", func(t *testing.T) {
		lines, err := cart.AddProduct(ctx, "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lines) != 1 || lines[0].Quantity != 1 {
			t.Fatalf("expected one line with quantity 1, got %+v", lines)
		}
	})

	t.Run("repeated add increments quantity", func(t *testing.T) {
		lines, err := cart.AddProduct(ctx, "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lines) != 1 || lines[0].Quantity != 2 {
			t.Fatalf("expected one line with quantity 2, got %+v", lines)
		}
	})

	t.Run("subtotal is unit price times quantity", func(t *testing.T) {
		if got := cart.SubtotalCents(); got != 1500 {
			t.Fatalf("expected subtotal 1500, got %d", got)
		}
	})
}

func TestCartUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	cart := NewCartService(memory.NewProductRepository(memory.SeedProducts()))
	if _, err := cart.AddProduct(ctx, "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("positive delta", func(t *testing.T) {
		lines, err := cart.UpdateQuantity(ctx, "1", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lines[0].Quantity != 4 {
			t.Fatalf("expected quantity 4, got %d", lines[0].Quantity)
		}
	})

	t.Run("decrement clamps at 1", func(t *testing.T) {
		lines, err := cart.UpdateQuantity(ctx, "1", -10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lines[0].Quantity != 1 {
			t.Fatalf("expected quantity clamped to 1, got %d", lines[0].Quantity)
		}
	})

	t.Run("unknown line -> not found", func(t *testing.T) {
		if _, err := cart.UpdateQuantity(ctx, "99", 1); err == nil {
			t.Fatal("expected error for unknown line")
		}
	})

	t.Run("subtotal scales linearly with quantity", func(t *testing.T) {
		before := cart.SubtotalCents()
		lines := cart.Lines()
		for _, line := range lines {
			if _, err := cart.UpdateQuantity(ctx, line.Product.ID, line.Quantity); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if got := cart.SubtotalCents(); got != 2*before {
			t.Fatalf("expected doubled subtotal %d, got %d", 2*before, got)
		}
	})
}

func TestCartRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	cart := NewCartService(memory.NewProductRepository(memory.SeedProducts()))
	for _, id := range []string{"1", "2", "3"} {
		if _, err := cart.AddProduct(ctx, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	lines, err := cart.RemoveProduct(ctx, "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after removal, got %d", len(lines))
	}
	// Insertion order preserved
	if lines[0].Product.ID != "1" || lines[1].Product.ID != "3" {
		t.Fatalf("unexpected order: %+v", lines)
	}

	cart.Clear()
	if len(cart.Lines()) != 0 || cart.SubtotalCents() != 0 {
		t.Fatal("expected empty cart after clear")
	}
}

func TestCartFreeze(t *testing.T) {
	ctx := context.Background()
	cart := NewCartService(memory.NewProductRepository(memory.SeedProducts()))
	if _, err := cart.AddProduct(ctx, "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart.Freeze()
	if _, err := cart.AddProduct(ctx, "2"); err == nil {
		t.Fatal("expected frozen cart to reject adds")
	}
	if _, err := cart.UpdateQuantity(ctx, "1", 1); err == nil {
		t.Fatal("expected frozen cart to reject updates")
	}
	if _, err := cart.RemoveProduct(ctx, "1"); err == nil {
		t.Fatal("expected frozen cart to reject removals")
	}

	cart.Unfreeze()
	if _, err := cart.AddProduct(ctx, "2"); err != nil {
		t.Fatalf("unexpected error after unfreeze: %v", err)
	}
}
