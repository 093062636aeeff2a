package repository

import (
	"context"

	"github.com/superpos/terminal-api/internal/domain/entity"
)

// ClientRepository defines the interface for the client directory
type ClientRepository interface {
	List(ctx context.Context) ([]entity.Client, error)
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Create(ctx context.Context, client *entity.Client) error
}
