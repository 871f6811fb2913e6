package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

const productColumns = `p.id::text, p.category_id::text, p.name, p.slug, p.sku, COALESCE(p.description, ''), p.price_cents, p.sale_price_cents, p.stock, p.weight_grams, p.featured, p.active, p.images, p.created_at`

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Product, int, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ActiveOnly {
		where = append(where, "p.active")
	}
	if f.CategorySlug != "" {
		where = append(where, "c.slug = "+arg(f.CategorySlug))
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		ph := arg(pattern)
		where = append(where, fmt.Sprintf("(p.name ILIKE %s OR p.description ILIKE %s OR p.sku ILIKE %s)", ph, ph, ph))
	}
	if f.MinPriceCents != nil {
		where = append(where, "p.price_cents >= "+arg(*f.MinPriceCents))
	}
	if f.MaxPriceCents != nil {
		where = append(where, "p.price_cents <= "+arg(*f.MaxPriceCents))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	orderBy := "p.created_at DESC"
	switch f.Sort {
	case "price-low":
		orderBy = "p.price_cents ASC"
	case "price-high":
		orderBy = "p.price_cents DESC"
	case "name":
		orderBy = "p.name ASC"
	case "featured":
		orderBy = "p.featured DESC, p.created_at DESC"
	}

	countQuery := fmt.Sprintf(`
SELECT count(*)
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
%s
`, whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 12
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf(`
SELECT %s, c.id::text, c.name, c.slug
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
%s
ORDER BY %s
LIMIT %s OFFSET %s
`, productColumns, whereClause, orderBy, arg(limit), arg(offset))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		var catID, catName, catSlug *string
		if err := scanProduct(rows, &p, &catID, &catName, &catSlug); err != nil {
			return nil, 0, err
		}
		attachCategory(&p, catID, catName, catSlug)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, 0, err
	}
	r.logger.Printf("product repo: list count=%d total=%d", len(result), total)
	return result, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getOne(ctx, "p.id = $1", id)
}

func (r *postgresRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.getOne(ctx, "p.sku = $1", sku)
}

func (r *postgresRepo) getOne(ctx context.Context, cond string, arg interface{}) (*domain.Product, error) {
	q := fmt.Sprintf(`
SELECT %s, c.id::text, c.name, c.slug
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
WHERE %s
`, productColumns, cond)
	var p domain.Product
	var catID, catName, catSlug *string
	err := scanProduct(r.pool.QueryRow(ctx, q, arg), &p, &catID, &catName, &catSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get error=%v", err)
		return nil, err
	}
	attachCategory(&p, catID, catName, catSlug)
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (category_id, name, slug, sku, description, price_cents, sale_price_cents, stock, weight_grams, featured, active, images)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12)
RETURNING id::text, created_at
`
	out := p
	err := r.pool.QueryRow(ctx, q,
		p.CategoryID, p.Name, p.Slug, p.SKU, p.Description, p.PriceCents, p.SalePriceCents,
		p.Stock, p.WeightGrams, p.Featured, p.Active, imagesOrEmpty(p.Images),
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("product repo: create sku=%s error=%v", p.SKU, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s sku=%s", out.ID, out.SKU)
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET category_id = $2, name = $3, slug = $4, sku = $5, description = NULLIF($6, ''),
    price_cents = $7, sale_price_cents = $8, stock = $9, weight_grams = $10,
    featured = $11, active = $12, images = $13
WHERE id = $1
RETURNING created_at
`
	out := p
	err := r.pool.QueryRow(ctx, q,
		p.ID, p.CategoryID, p.Name, p.Slug, p.SKU, p.Description, p.PriceCents, p.SalePriceCents,
		p.Stock, p.WeightGrams, p.Featured, p.Active, imagesOrEmpty(p.Images),
	).Scan(&out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return &out, nil
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
	r.logger.Printf("product repo: deleted id=%s", id)
	return nil
}

// UpsertBySKU inserts or updates a product keyed on SKU. The second
// return value reports whether a new row was created.
func (r *postgresRepo) UpsertBySKU(ctx context.Context, p domain.Product) (*domain.Product, bool, error) {
	const q = `
INSERT INTO products (category_id, name, slug, sku, description, price_cents, sale_price_cents, stock, weight_grams, featured, active, images)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (sku) DO UPDATE SET
    category_id = EXCLUDED.category_id,
    name = EXCLUDED.name,
    slug = EXCLUDED.slug,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    sale_price_cents = EXCLUDED.sale_price_cents,
    stock = EXCLUDED.stock,
    weight_grams = EXCLUDED.weight_grams,
    featured = EXCLUDED.featured,
    active = EXCLUDED.active,
    images = EXCLUDED.images
RETURNING id::text, created_at, (xmax = 0) AS inserted
`
	out := p
	var inserted bool
	err := r.pool.QueryRow(ctx, q,
		p.CategoryID, p.Name, p.Slug, p.SKU, p.Description, p.PriceCents, p.SalePriceCents,
		p.Stock, p.WeightGrams, p.Featured, p.Active, imagesOrEmpty(p.Images),
	).Scan(&out.ID, &out.CreatedAt, &inserted)
	if err != nil {
		r.logger.Printf("product repo: upsert sku=%s error=%v", p.SKU, err)
		return nil, false, err
	}
	r.logger.Printf("product repo: upserted sku=%s id=%s inserted=%t", out.SKU, out.ID, inserted)
	return &out, inserted, nil
}

func scanProduct(row pgx.Row, p *domain.Product, catID, catName, catSlug **string) error {
	return row.Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Slug,
		&p.SKU,
		&p.Description,
		&p.PriceCents,
		&p.SalePriceCents,
		&p.Stock,
		&p.WeightGrams,
		&p.Featured,
		&p.Active,
		&p.Images,
		&p.CreatedAt,
		catID,
		catName,
		catSlug,
	)
}

func attachCategory(p *domain.Product, id, name, slug *string) {
	if id == nil {
		return
	}
	cat := domain.Category{ID: *id}
	if name != nil {
		cat.Name = *name
	}
	if slug != nil {
		cat.Slug = *slug
	}
	p.Category = &cat
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
