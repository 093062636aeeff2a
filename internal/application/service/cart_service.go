package service

import (
	"context"
	"sync"

	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/repository"
	"github.com/superpos/terminal-api/pkg/apperror"
)

// CartService holds the active shopping cart. The cart exists only during
// active shopping: it is cleared on sale commit and on checkout abandonment,
// and frozen while a checkout is in progress.
type CartService struct {
	productRepo repository.ProductRepository

	mu     sync.Mutex
	order  []string
	lines  map[string]*entity.CartLine
	frozen bool
}

// NewCartService creates an empty cart backed by the given catalog.
func NewCartService(productRepo repository.ProductRepository) *CartService {
	return &CartService{
		productRepo: productRepo,
		lines:       make(map[string]*entity.CartLine),
	}
}

// AddProduct inserts a product with quantity 1, or increments the quantity when
// the product is already in the cart.
func (s *CartService) AddProduct(ctx context.Context, productID string) ([]entity.CartLine, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return nil, apperror.NewConflictError("Cart is locked while a checkout is in progress")
	}

	if line, ok := s.lines[productID]; ok {
		line.Quantity++
	} else {
		s.order = append(s.order, productID)
		s.lines[productID] = &entity.CartLine{Product: *product, Quantity: 1}
	}
	return s.linesLocked(), nil
}

// RemoveProduct deletes the line entirely.
func (s *CartService) RemoveProduct(ctx context.Context, productID string) ([]entity.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return nil, apperror.NewConflictError("Cart is locked while a checkout is in progress")
	}

	if _, ok := s.lines[productID]; !ok {
		return nil, apperror.NewNotFoundError("Cart line")
	}
	delete(s.lines, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return s.linesLocked(), nil
}

// UpdateQuantity adjusts a line's quantity by delta, clamped to a minimum of 1.
// Removal is a separate explicit action.
func (s *CartService) UpdateQuantity(ctx context.Context, productID string, delta int) ([]entity.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return nil, apperror.NewConflictError("Cart is locked while a checkout is in progress")
	}

	line, ok := s.lines[productID]
	if !ok {
		return nil, apperror.NewNotFoundError("Cart line")
	}
	line.Quantity += delta
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	return s.linesLocked(), nil
}

// Lines returns the cart lines in insertion order.
func (s *CartService) Lines() []entity.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linesLocked()
}

// SubtotalCents sums unit price times quantity over all lines.
func (s *CartService) SubtotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, line := range s.lines {
		total += line.TotalCents()
	}
	return total
}

// Clear empties the cart and unfreezes it.
func (s *CartService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.lines = make(map[string]*entity.CartLine)
	s.frozen = false
}

// Freeze blocks cart mutations for the duration of a checkout.
func (s *CartService) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

// Unfreeze lifts the checkout freeze without clearing the cart.
func (s *CartService) Unfreeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = false
}

func (s *CartService) linesLocked() []entity.CartLine {
	out := make([]entity.CartLine, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}
