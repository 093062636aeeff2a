package service

import (
	"context"
	"strings"

	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/repository"
	"github.com/superpos/terminal-api/pkg/apperror"
)

// ClientService manages the customer directory.
type ClientService struct {
	clientRepo repository.ClientRepository
}

func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

func (s *ClientService) List(ctx context.Context) ([]entity.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *ClientService) Get(ctx context.Context, id string) (*entity.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

// Create validates and stores a new client record.
func (s *ClientService) Create(ctx context.Context, client entity.Client) (*entity.Client, error) {
	var fieldErrs []apperror.FieldError
	if strings.TrimSpace(client.Name) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(client.Document) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "document", Message: "is required"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	if err := s.clientRepo.Create(ctx, &client); err != nil {
		return nil, err
	}
	return &client, nil
}
