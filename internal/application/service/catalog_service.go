package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/repository"
	"github.com/superpos/terminal-api/pkg/smartsearch"
)

// CatalogService exposes product listing and search over the catalog.
type CatalogService struct {
	productRepo repository.ProductRepository
	search      smartsearch.Client
	log         *zap.Logger
}

func NewCatalogService(productRepo repository.ProductRepository, search smartsearch.Client, log *zap.Logger) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		search:      search,
		log:         log,
	}
}

// List returns the full catalog.
func (s *CatalogService) List(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.List(ctx)
}

// Get returns one product by ID.
func (s *CatalogService) Get(ctx context.Context, id string) (*entity.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// Search filters the catalog by a case-insensitive substring match over name,
// barcode and category. An empty query returns the full catalog.
func (s *CatalogService) Search(ctx context.Context, query string) ([]entity.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products, nil
	}

	matched := make([]entity.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Barcode), query) ||
			strings.Contains(strings.ToLower(p.Category), query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// SmartSearchEnabled reports whether the AI-assisted lookup can be offered.
func (s *CatalogService) SmartSearchEnabled() bool {
	return s.search.Enabled()
}

// SmartSearch resolves a natural-language query to catalog products via the AI
// lookup. The lookup fails open: on any error the plain substring search result
// is returned instead, so a provider outage degrades the search, never the till.
func (s *CatalogService) SmartSearch(ctx context.Context, query string) ([]entity.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	inventory := make([]smartsearch.InventoryItem, 0, len(products))
	for _, p := range products {
		inventory = append(inventory, smartsearch.InventoryItem{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
		})
	}

	ids, err := s.search.Lookup(ctx, query, inventory)
	if err != nil {
		s.log.Warn("smart search lookup failed, falling back to substring match",
			zap.String("query", query),
			zap.Error(err),
		)
		return s.Search(ctx, query)
	}

	byID := make(map[string]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	matched := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// LowStock returns products at or below the given stock threshold.
func (s *CatalogService) LowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, threshold)
}
