package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/repository"
	"github.com/superpos/terminal-api/pkg/apperror"
)

// clientRepository is the in-process client directory.
type clientRepository struct {
	mu      sync.RWMutex
	order   []string
	clients map[string]*entity.Client
}

// NewClientRepository creates an in-memory client directory seeded with the
// given records.
func NewClientRepository(seed []entity.Client) repository.ClientRepository {
	r := &clientRepository{clients: make(map[string]*entity.Client, len(seed))}
	for i := range seed {
		c := seed[i]
		r.order = append(r.order, c.ID)
		r.clients[c.ID] = &c
	}
	return r
}

func (r *clientRepository) List(ctx context.Context) ([]entity.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Client, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.clients[id])
	}
	return out, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Client")
	}
	cp := *c
	return &cp, nil
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	cp := *client
	r.order = append(r.order, cp.ID)
	r.clients[cp.ID] = &cp
	return nil
}
