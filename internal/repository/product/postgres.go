package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"obak-storefront/internal/domain"
)

const productColumns = `id::text, name, COALESCE(description, ''), COALESCE(short_description, ''), price::text, COALESCE(main_image, ''), additional_images, category, rating, reviews, in_stock, variants, features, sales, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, description, short_description, price, main_image, additional_images, category, rating, reviews, in_stock, variants, features, sales)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, NULLIF($3, ''), NULLIF($4, ''), $5::numeric, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + productColumns + `
`
	created, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Description, p.ShortDescription, p.Price.String(),
		p.MainImage, p.AdditionalImages, p.Category, p.Rating, p.Reviews,
		p.InStock, p.Variants, p.Features, p.Sales,
	))
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, description, short_description, price, main_image, additional_images, category, rating, reviews, in_stock, variants, features, sales)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, NULLIF($3, ''), NULLIF($4, ''), $5::numeric, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (name) DO UPDATE SET
    description = EXCLUDED.description,
    short_description = EXCLUDED.short_description,
    price = EXCLUDED.price,
    main_image = EXCLUDED.main_image,
    additional_images = EXCLUDED.additional_images,
    category = EXCLUDED.category,
    rating = EXCLUDED.rating,
    reviews = EXCLUDED.reviews,
    in_stock = EXCLUDED.in_stock,
    variants = EXCLUDED.variants,
    features = EXCLUDED.features
RETURNING ` + productColumns + `
`
	saved, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Description, p.ShortDescription, p.Price.String(),
		p.MainImage, p.AdditionalImages, p.Category, p.Rating, p.Reviews,
		p.InStock, p.Variants, p.Features, p.Sales,
	))
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q error=%v", p.Name, err)
		return nil, err
	}
	return saved, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = $2,
    description = NULLIF($3, ''),
    short_description = NULLIF($4, ''),
    price = $5::numeric,
    main_image = NULLIF($6, ''),
    additional_images = $7,
    category = $8,
    rating = $9,
    reviews = $10,
    in_stock = $11,
    variants = $12,
    features = $13
WHERE id = $1
RETURNING ` + productColumns + `
`
	updated, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Description, p.ShortDescription, p.Price.String(),
		p.MainImage, p.AdditionalImages, p.Category, p.Rating, p.Reviews,
		p.InStock, p.Variants, p.Features,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetSales(ctx context.Context, id string) (int, error) {
	var sales int
	err := r.pool.QueryRow(ctx, `SELECT sales FROM products WHERE id = $1`, id).Scan(&sales)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get sales id=%s error=%v", id, err)
		return 0, err
	}
	return sales, nil
}

func (r *postgresRepo) SetSales(ctx context.Context, id string, sales int) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE products SET sales = $2 WHERE id = $1`, id, sales)
	if err != nil {
		r.logger.Printf("product repo: set sales id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var price string
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.ShortDescription, &price,
		&p.MainImage, &p.AdditionalImages, &p.Category, &p.Rating,
		&p.Reviews, &p.InStock, &p.Variants, &p.Features, &p.Sales,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = parsed
	return &p, nil
}
