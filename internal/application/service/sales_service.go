package service

import (
	"context"

	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/enum"
	"github.com/superpos/terminal-api/internal/domain/repository"
	"github.com/superpos/terminal-api/pkg/pagination"
)

// SalesService reads the append-only sales log and aggregates it into reports.
type SalesService struct {
	saleRepo repository.SaleRepository
}

func NewSalesService(saleRepo repository.SaleRepository) *SalesService {
	return &SalesService{saleRepo: saleRepo}
}

// List returns a page of the sales history, newest first.
func (s *SalesService) List(ctx context.Context, params pagination.PaginationParams) (*pagination.PaginatedResult[entity.SaleRecord], error) {
	params.Normalize()
	sales, total, err := s.saleRepo.List(ctx, params.Offset(), params.PerPage)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, p), nil
}

// Get returns one sale by ID.
func (s *SalesService) Get(ctx context.Context, id string) (*entity.SaleRecord, error) {
	return s.saleRepo.GetByID(ctx, id)
}

// SalesSummary aggregates the whole sales log. Revenue buckets key on the
// structured payment method, never on display labels.
type SalesSummary struct {
	SaleCount         int                `json:"sale_count"`
	GrossRevenue      float64            `json:"gross_revenue"`
	AverageTicket     float64            `json:"average_ticket"`
	ItemsSold         int                `json:"items_sold"`
	RevenueByMethod   map[string]float64 `json:"revenue_by_method"`
	RevenueByCategory map[string]float64 `json:"revenue_by_category"`
}

// Summary computes the aggregate report over every committed sale.
func (s *SalesService) Summary(ctx context.Context) (*SalesSummary, error) {
	sales, err := s.saleRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	summary := &SalesSummary{
		RevenueByMethod:   make(map[string]float64),
		RevenueByCategory: make(map[string]float64),
	}
	for _, m := range []enum.PaymentMethod{enum.MethodCash, enum.MethodCard, enum.MethodPix} {
		summary.RevenueByMethod[m.String()] = 0
	}

	var grossCents int64
	methodCents := make(map[enum.PaymentMethod]int64)
	categoryCents := make(map[string]int64)

	for _, sale := range sales {
		grossCents += sale.TotalCents
		for _, p := range sale.Payments {
			methodCents[p.Method] += p.AmountCents
		}
		for _, line := range sale.Items {
			summary.ItemsSold += line.Quantity
			categoryCents[line.Product.Category] += line.TotalCents()
		}
	}

	summary.SaleCount = len(sales)
	summary.GrossRevenue = centsToDecimal(grossCents)
	if len(sales) > 0 {
		summary.AverageTicket = centsToDecimal(grossCents / int64(len(sales)))
	}
	for method, cents := range methodCents {
		summary.RevenueByMethod[method.String()] = centsToDecimal(cents)
	}
	for category, cents := range categoryCents {
		summary.RevenueByCategory[category] = centsToDecimal(cents)
	}
	return summary, nil
}
