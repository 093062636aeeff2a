package repository

import (
	"context"

	"github.com/superpos/terminal-api/internal/domain/entity"
)

// ProductRepository defines the interface for catalog data operations
type ProductRepository interface {
	List(ctx context.Context) ([]entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in one call
	GetByIDs(ctx context.Context, ids []string) ([]entity.Product, error)
	GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error)
	// DecrementStockBatch decrements stock for multiple products, flooring each
	// at zero. Called only by sale commit; the new counts must be visible to
	// catalog reads immediately.
	DecrementStockBatch(ctx context.Context, decrements map[string]int) error
}
