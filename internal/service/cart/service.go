package cart

import (
	"context"
	"io"
	"log"

	"obak-storefront/internal/domain"
	"obak-storefront/internal/repository/cartstate"
)

// Service is the only reader and mutator of cart state. It guarantees that
// no two lines share a (product id, variant) key, that every line has
// quantity >= 1, and that the full line set is re-persisted synchronously
// after every mutation. Product ids are normalized to strings at this
// boundary; callers must not rely on numeric comparison.
type Service struct {
	store  cartstate.Repository
	logger *log.Logger
}

func New(store cartstate.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{store: store, logger: logger}
}

// Snapshot returns an ordered read-only copy of the cart.
func (s *Service) Snapshot(ctx context.Context, cartKey string) (domain.Cart, error) {
	lines, err := s.store.Load(ctx, cartKey)
	if err != nil {
		return domain.Cart{}, err
	}
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return domain.Cart{Lines: out}, nil
}

// Add merges quantity into an existing line with the same (product id,
// variant) key, or appends a new line. Quantity is expected to be positive;
// the HTTP boundary validates input.
func (s *Service) Add(ctx context.Context, cartKey string, p domain.Product, quantity int, variant string) (domain.Cart, error) {
	lines, err := s.store.Load(ctx, cartKey)
	if err != nil {
		return domain.Cart{}, err
	}

	key := domain.LineKey(p.ID, variant)
	merged := false
	for i := range lines {
		if lines[i].Key() == key {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, domain.CartLine{Product: p, Quantity: quantity, Variant: variant})
	}

	return s.persist(ctx, cartKey, lines)
}

// Remove deletes the matching line. Removing an absent line is a no-op,
// not an error.
func (s *Service) Remove(ctx context.Context, cartKey, productID, variant string) (domain.Cart, error) {
	lines, err := s.store.Load(ctx, cartKey)
	if err != nil {
		return domain.Cart{}, err
	}

	key := domain.LineKey(productID, variant)
	kept := lines[:0]
	for _, l := range lines {
		if l.Key() != key {
			kept = append(kept, l)
		}
	}

	return s.persist(ctx, cartKey, kept)
}

// UpdateQuantity overwrites the line's quantity in place. A quantity of
// zero or less removes the line instead.
func (s *Service) UpdateQuantity(ctx context.Context, cartKey, productID string, quantity int, variant string) (domain.Cart, error) {
	if quantity <= 0 {
		return s.Remove(ctx, cartKey, productID, variant)
	}

	lines, err := s.store.Load(ctx, cartKey)
	if err != nil {
		return domain.Cart{}, err
	}

	key := domain.LineKey(productID, variant)
	for i := range lines {
		if lines[i].Key() == key {
			lines[i].Quantity = quantity
			break
		}
	}

	return s.persist(ctx, cartKey, lines)
}

// Clear empties the cart unconditionally. Clearing an empty cart is a
// no-op that still succeeds.
func (s *Service) Clear(ctx context.Context, cartKey string) error {
	_, err := s.persist(ctx, cartKey, nil)
	return err
}

func (s *Service) persist(ctx context.Context, cartKey string, lines []domain.CartLine) (domain.Cart, error) {
	if err := s.store.Save(ctx, cartKey, lines); err != nil {
		s.logger.Printf("cart service: persist key=%s error=%v", cartKey, err)
		return domain.Cart{}, err
	}
	return domain.Cart{Lines: lines}, nil
}
