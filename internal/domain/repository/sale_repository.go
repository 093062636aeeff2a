package repository

import (
	"context"

	"github.com/superpos/terminal-api/internal/domain/entity"
)

// SaleRepository is the append-only sink for committed sales. Records are
// never mutated or deleted after Append.
type SaleRepository interface {
	Append(ctx context.Context, sale *entity.SaleRecord) error
	GetByID(ctx context.Context, id string) (*entity.SaleRecord, error)
	// List returns sales newest-first with offset pagination.
	List(ctx context.Context, offset, limit int) ([]entity.SaleRecord, int64, error)
	// All returns every sale, newest-first, for report aggregation.
	All(ctx context.Context) ([]entity.SaleRecord, error)
}
