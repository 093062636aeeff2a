package memory

import (
	"context"
	"sync"

	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/repository"
	"github.com/superpos/terminal-api/pkg/apperror"
)

// productRepository is an in-process product store. The terminal holds its
// whole catalog in memory; durability is out of scope.
type productRepository struct {
	mu       sync.RWMutex
	order    []string
	products map[string]*entity.Product
}

// NewProductRepository creates an in-memory product repository seeded with the
// given catalog.
func NewProductRepository(seed []entity.Product) repository.ProductRepository {
	r := &productRepository{products: make(map[string]*entity.Product, len(seed))}
	for i := range seed {
		p := seed[i]
		r.order = append(r.order, p.ID)
		r.products[p.ID] = &p
	}
	return r
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.products[id])
	}
	return out, nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Product")
	}
	cp := *p
	return &cp, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *productRepository) GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entity.Product
	for _, id := range r.order {
		if p := r.products[id]; p.Stock <= threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *productRepository) DecrementStockBatch(ctx context.Context, decrements map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, qty := range decrements {
		p, ok := r.products[id]
		if !ok {
			continue
		}
		p.Stock -= qty
		if p.Stock < 0 {
			p.Stock = 0
		}
	}
	return nil
}
