package memory

import (
	"context"
	"testing"
	"time"

	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/repository"
)

func seedTwoSales(t *testing.T, repo repository.SaleRepository) {
	t.Helper()
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		err := repo.Append(ctx, &entity.SaleRecord{ID: id, Timestamp: time.Now(), TotalCents: 100})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestSaleRepositoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewSaleRepository()

	seedTwoSales(t, repo)

	sales, _, err := repo.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sales) != 2 || sales[0].ID != "b" || sales[1].ID != "a" {
		t.Fatalf("expected newest-first ordering, got %+v", sales)
	}

	// Offset past the end yields an empty page, not an error
	sales, total, err := repo.List(ctx, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sales) != 0 || total != 2 {
		t.Fatalf("expected empty page with total 2, got %d items, total %d", len(sales), total)
	}
}
