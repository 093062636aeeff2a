package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/enum"
	"github.com/superpos/terminal-api/internal/domain/repository"
	"github.com/superpos/terminal-api/internal/infrastructure/memory"
	"github.com/superpos/terminal-api/pkg/pagination"
)

func creditCard() *enum.CardType {
	t := enum.CardCredit
	return &t
}

func seedSales(t *testing.T, repo repository.SaleRepository) {
	t.Helper()
	ctx := context.Background()

	coffee := entity.Product{ID: "4", Name: "Café Torrado 500g", PriceCents: 1800, Category: "Bebidas"}
	soap := entity.Product{ID: "7", Name: "Sabão em Pó 1kg", PriceCents: 1450, Category: "Limpeza"}

	sales := []*entity.SaleRecord{
		{
			ID:         "s1",
			Timestamp:  time.Now().Add(-2 * time.Hour),
			Items:      []entity.CartLine{{Product: coffee, Quantity: 2}},
			TotalCents: 3600,
			Payments: []entity.PaymentEntry{
				{Method: enum.MethodCash, AmountCents: 3600},
			},
			PrimaryMethod: "Dinheiro",
		},
		{
			ID:         "s2",
			Timestamp:  time.Now().Add(-1 * time.Hour),
			Items:      []entity.CartLine{{Product: soap, Quantity: 1}, {Product: coffee, Quantity: 1}},
			TotalCents: 3250,
			Payments: []entity.PaymentEntry{
				{Method: enum.MethodPix, AmountCents: 1000},
				{Method: enum.MethodCard, AmountCents: 2250, CardType: creditCard(), TerminalID: "m1"},
			},
			PrimaryMethod: "Cartão (credit) - Terminal Stone S920 - Caixa 01",
		},
	}
	for _, sale := range sales {
		require.NoError(t, repo.Append(ctx, sale))
	}
}

func TestSalesList(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSaleRepository()
	svc := NewSalesService(repo)
	seedSales(t, repo)

	result, err := svc.List(ctx, pagination.PaginationParams{Page: 1, PerPage: 1})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, "s2", result.Items[0].ID, "history must be newest first")
	require.Equal(t, int64(2), result.Pagination.Total)
	require.Equal(t, 2, result.Pagination.TotalPages)

	result, err = svc.List(ctx, pagination.PaginationParams{Page: 2, PerPage: 1})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, "s1", result.Items[0].ID)
}

func TestSalesGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSaleRepository()
	svc := NewSalesService(repo)
	seedSales(t, repo)

	sale, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(3600), sale.TotalCents)

	_, err = svc.Get(ctx, "missing")
	require.Error(t, err)
}

func TestSalesSummary(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSaleRepository()
	svc := NewSalesService(repo)

	t.Run("empty log", func(t *testing.T) {
		summary, err := svc.Summary(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, summary.SaleCount)
		require.Equal(t, 0.0, summary.GrossRevenue)
		require.Equal(t, 0.0, summary.AverageTicket)
		// Every method bucket is present even with no sales
		require.Contains(t, summary.RevenueByMethod, "cash")
		require.Contains(t, summary.RevenueByMethod, "card")
		require.Contains(t, summary.RevenueByMethod, "pix")
	})

	seedSales(t, repo)

	t.Run("aggregates by method and category", func(t *testing.T) {
		summary, err := svc.Summary(ctx)
		require.NoError(t, err)

		require.Equal(t, 2, summary.SaleCount)
		require.Equal(t, 68.50, summary.GrossRevenue)
		require.Equal(t, 34.25, summary.AverageTicket)
		require.Equal(t, 4, summary.ItemsSold)

		// Buckets key on the structured method, not the receipt label
		require.Equal(t, 36.00, summary.RevenueByMethod["cash"])
		require.Equal(t, 10.00, summary.RevenueByMethod["pix"])
		require.Equal(t, 22.50, summary.RevenueByMethod["card"])

		require.Equal(t, 54.00, summary.RevenueByCategory["Bebidas"])
		require.Equal(t, 14.50, summary.RevenueByCategory["Limpeza"])
	})
}
