package cartstate

import (
	"context"

	"obak-storefront/internal/domain"
)

// Repository persists the full line set of one cart under one string key.
// The stored format is a JSON array of CartLine; a missing key reads back
// as an empty cart. Entries never expire by time — a cart is gone only
// when explicitly cleared.
type Repository interface {
	Load(ctx context.Context, cartKey string) ([]domain.CartLine, error)
	Save(ctx context.Context, cartKey string, lines []domain.CartLine) error
}
