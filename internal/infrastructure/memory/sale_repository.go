package memory

import (
	"context"
	"sync"

	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/repository"
	"github.com/superpos/terminal-api/pkg/apperror"
)

// saleRepository is the in-process append-only sales log, newest-first.
type saleRepository struct {
	mu    sync.RWMutex
	sales []entity.SaleRecord
}

// NewSaleRepository creates an empty in-memory sales log.
func NewSaleRepository() repository.SaleRepository {
	return &saleRepository{}
}

func (r *saleRepository) Append(ctx context.Context, sale *entity.SaleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Prepend so listings come out newest-first without sorting.
	r.sales = append([]entity.SaleRecord{*sale}, r.sales...)
	return nil
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (*entity.SaleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.sales {
		if r.sales[i].ID == id {
			cp := r.sales[i]
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFoundError("Sale")
}

func (r *saleRepository) List(ctx context.Context, offset, limit int) ([]entity.SaleRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := int64(len(r.sales))
	if offset >= len(r.sales) {
		return []entity.SaleRecord{}, total, nil
	}
	end := offset + limit
	if end > len(r.sales) {
		end = len(r.sales)
	}
	out := make([]entity.SaleRecord, end-offset)
	copy(out, r.sales[offset:end])
	return out, total, nil
}

func (r *saleRepository) All(ctx context.Context) ([]entity.SaleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.SaleRecord, len(r.sales))
	copy(out, r.sales)
	return out, nil
}
