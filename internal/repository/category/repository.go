package category

import (
	"context"

	"obak-storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error

	// Upsert inserts a category or refreshes the slug of the row with the
	// same name.
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}
