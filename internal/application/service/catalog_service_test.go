package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/superpos/terminal-api/internal/infrastructure/memory"
	"github.com/superpos/terminal-api/pkg/smartsearch"
)

type fakeSearchClient struct {
	ids []string
	err error
}

func (f fakeSearchClient) Enabled() bool { return true }

func (f fakeSearchClient) Lookup(ctx context.Context, query string, inventory []smartsearch.InventoryItem) ([]string, error) {
	return f.ids, f.err
}

func newCatalog(search smartsearch.Client) *CatalogService {
	return NewCatalogService(memory.NewProductRepository(memory.SeedProducts()), search, zap.NewNop())
}

func TestCatalogSearch(t *testing.T) {
	ctx := context.Background()
	svc := newCatalog(smartsearch.NewClient(""))

	t.Run("empty query returns everything", func(t *testing.T) {
		products, err := svc.Search(ctx, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 10 {
			t.Fatalf("expected 10 products, got %d", len(products))
		}
	})

	t.Run("matches name case-insensitively", func(t *testing.T) {
		products, err := svc.Search(ctx, "arroz")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 1 || products[0].ID != "1" {
			t.Fatalf("expected Arroz, got %+v", products)
		}
	})

	t.Run("matches barcode", func(t *testing.T) {
		products, err := svc.Search(ctx, "7891000004")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 1 || products[0].ID != "4" {
			t.Fatalf("expected Café, got %+v", products)
		}
	})

	t.Run("matches category", func(t *testing.T) {
		products, err := svc.Search(ctx, "limpeza")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 2 {
			t.Fatalf("expected 2 cleaning products, got %d", len(products))
		}
	})

	t.Run("no match -> empty, not nil", func(t *testing.T) {
		products, err := svc.Search(ctx, "xyzzy")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if products == nil || len(products) != 0 {
			t.Fatalf("expected empty slice, got %v", products)
		}
	})
}

func TestCatalogSmartSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves model IDs against the catalog", func(t *testing.T) {
		svc := newCatalog(fakeSearchClient{ids: []string{"3", "ghost", "1"}})
		products, err := svc.SmartSearch(ctx, "something for cooking")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 2 {
			t.Fatalf("expected 2 products (unknown ID dropped), got %d", len(products))
		}
		if products[0].ID != "3" || products[1].ID != "1" {
			t.Fatalf("expected model ordering preserved, got %+v", products)
		}
	})

	t.Run("provider error falls back to substring search", func(t *testing.T) {
		svc := newCatalog(fakeSearchClient{err: errors.New("boom")})
		products, err := svc.SmartSearch(ctx, "arroz")
		if err != nil {
			t.Fatalf("fail-open lookup must not surface the error, got %v", err)
		}
		if len(products) != 1 || products[0].ID != "1" {
			t.Fatalf("expected substring fallback to match Arroz, got %+v", products)
		}
	})

	t.Run("disabled client reports unavailable", func(t *testing.T) {
		svc := newCatalog(smartsearch.NewClient(""))
		if svc.SmartSearchEnabled() {
			t.Fatal("expected smart search to be disabled without an API key")
		}
	})
}

func TestCatalogLowStock(t *testing.T) {
	ctx := context.Background()
	svc := newCatalog(smartsearch.NewClient(""))

	products, err := svc.LowStock(ctx, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range products {
		if p.Stock > 20 {
			t.Fatalf("product %s has stock %d above threshold", p.ID, p.Stock)
		}
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products at or below 20, got %d", len(products))
	}
}
