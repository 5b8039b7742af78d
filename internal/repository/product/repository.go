package product

import (
	"context"

	"obak-storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error

	// Upsert inserts a product or updates the existing row with the same
	// name. Seeding and CSV imports rely on this being idempotent.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)

	// GetSales and SetSales expose the per-product sales counter the
	// dispatch pipeline reconciles after a successful checkout.
	GetSales(ctx context.Context, id string) (int, error)
	SetSales(ctx context.Context, id string, sales int) error
}
