package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type categorySeed struct {
	Slug        string
	Name        string
	Description string
}

type productSeed struct {
	SKU            string
	Slug           string
	Name           string
	Description    string
	PriceCents     int64
	SalePriceCents *int64
	Stock          int
	CategorySlug   string
	Featured       bool
}

func cents(v int64) *int64 { return &v }

// Apply inserts basic seed data for manual testing. It is idempotent
// via ON CONFLICT, and safe to run against a populated database.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := []categorySeed{
		{Slug: "apparel", Name: "Apparel", Description: "Shirts, hoodies and other wearables"},
		{Slug: "drinkware", Name: "Drinkware", Description: "Mugs, bottles and tumblers"},
		{Slug: "stickers", Name: "Stickers", Description: "Die-cut vinyl stickers"},
	}

	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		id, err := upsertCategory(ctx, pool, c)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = id
	}

	products := []productSeed{
		{
			SKU:          "SKU-DEMO-TSHIRT",
			Slug:         "demo-t-shirt",
			Name:         "Demo T-Shirt",
			Description:  "Soft cotton tee for demo purposes",
			PriceCents:   1999,
			Stock:        40,
			CategorySlug: "apparel",
			Featured:     true,
		},
		{
			SKU:            "SKU-DEMO-HOODIE",
			Slug:           "demo-hoodie",
			Name:           "Demo Hoodie",
			Description:    "Heavyweight fleece hoodie",
			PriceCents:     5499,
			SalePriceCents: cents(4499),
			Stock:          15,
			CategorySlug:   "apparel",
		},
		{
			SKU:          "SKU-DEMO-MUG",
			Slug:         "demo-mug",
			Name:         "Demo Mug",
			Description:  "Ceramic mug with demo logo",
			PriceCents:   1299,
			Stock:        60,
			CategorySlug: "drinkware",
			Featured:     true,
		},
		{
			SKU:          "SKU-DEMO-STICKERS",
			Slug:         "demo-sticker-pack",
			Name:         "Demo Sticker Pack",
			Description:  "Pack of five assorted stickers",
			PriceCents:   499,
			Stock:        200,
			CategorySlug: "stickers",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, categoryIDs[p.CategorySlug], p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	if err := ensureAdmin(ctx, pool, "admin@example.com", "changeme123"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	return nil
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) (string, error) {
	const q = `
INSERT INTO categories (slug, name, description)
VALUES ($1, $2, $3)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, c.Slug, c.Name, c.Description).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, p productSeed) error {
	const q = `
INSERT INTO products (sku, slug, name, description, price_cents, sale_price_cents, stock, category_id, featured, active, images)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, '[]'::jsonb)
ON CONFLICT (sku) DO UPDATE
SET slug = EXCLUDED.slug,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    sale_price_cents = EXCLUDED.sale_price_cents,
    stock = EXCLUDED.stock,
    category_id = EXCLUDED.category_id,
    featured = EXCLUDED.featured
`
	_, err := pool.Exec(ctx, q, p.SKU, p.Slug, p.Name, p.Description, p.PriceCents, p.SalePriceCents, p.Stock, categoryID, p.Featured)
	return err
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	const q = `
INSERT INTO admins (email, password_hash)
VALUES ($1, $2)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hash))
	return err
}
