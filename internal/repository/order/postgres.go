package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

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

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Race-free customer upsert keyed on email. The no-op update lets
	// RETURNING yield the existing row instead of overwriting it.
	var customerID string
	err = tx.QueryRow(ctx, `
INSERT INTO customers (email, first_name, last_name, phone)
VALUES (lower($1), $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET email = customers.email
RETURNING id::text
`, in.Customer.Email, in.Customer.FirstName, in.Customer.LastName, in.Customer.Phone).Scan(&customerID)
	if err != nil {
		r.logger.Printf("order repo: customer upsert email=%s error=%v", in.Customer.Email, err)
		return nil, err
	}

	var orderID string
	err = tx.QueryRow(ctx, `
INSERT INTO orders (order_number, customer_id, total_cents, status,
                    shipping_name, shipping_email, shipping_phone, shipping_address,
                    shipping_city, shipping_state, shipping_zip, shipping_country)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id::text
`, in.OrderNumber, customerID, in.TotalCents, domain.OrderStatusPending,
		in.Shipping.Name, in.Shipping.Email, in.Shipping.Phone, in.Shipping.Address,
		in.Shipping.City, in.Shipping.State, in.Shipping.Zip, in.Shipping.Country,
	).Scan(&orderID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert order number=%s error=%v", in.OrderNumber, err)
		return nil, err
	}

	for _, item := range in.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, price_cents)
VALUES ($1, $2, $3, $4)
`, orderID, item.ProductID, item.Quantity, item.PriceCents); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return nil, fmt.Errorf("product %s: %w", item.ProductID, domain.ErrNotFound)
			}
			r.logger.Printf("order repo: insert item product=%s error=%v", item.ProductID, err)
			return nil, err
		}

		// Guarded decrement. The row update takes a lock, so two
		// checkouts racing for the same product serialize here and the
		// loser sees the already-reduced stock.
		cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`, item.ProductID, item.Quantity)
		if err != nil {
			r.logger.Printf("order repo: decrement product=%s error=%v", item.ProductID, err)
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			var available int
			err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, item.ProductID).Scan(&available)
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("product %s: %w", item.ProductID, domain.ErrNotFound)
			}
			if err != nil {
				return nil, err
			}
			return nil, &domain.InsufficientStockError{ProductID: item.ProductID, Requested: item.Quantity, Available: available}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s number=%s items=%d", orderID, in.OrderNumber, len(in.Items))
	return r.GetByID(ctx, orderID)
}

const orderColumns = `o.id::text, o.order_number, o.customer_id::text, o.total_cents, o.status,
       o.shipping_name, o.shipping_email, o.shipping_phone, o.shipping_address,
       o.shipping_city, o.shipping_state, o.shipping_zip, o.shipping_country, o.created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := fmt.Sprintf(`
SELECT %s, c.email, c.first_name, c.last_name, c.phone, c.created_at
FROM orders o
JOIN customers c ON c.id = o.customer_id
WHERE o.id = $1
`, orderColumns)
	var o domain.Order
	var cust domain.Customer
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.TotalCents, &o.Status,
		&o.ShippingName, &o.ShippingEmail, &o.ShippingPhone, &o.ShippingAddress,
		&o.ShippingCity, &o.ShippingState, &o.ShippingZip, &o.ShippingCountry, &o.CreatedAt,
		&cust.Email, &cust.FirstName, &cust.LastName, &cust.Phone, &cust.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cust.ID = o.CustomerID
	o.Customer = &cust

	items, err := r.fetchItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	q := fmt.Sprintf(`
SELECT %s
FROM orders o
ORDER BY o.created_at DESC
`, orderColumns)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.TotalCents, &o.Status,
			&o.ShippingName, &o.ShippingEmail, &o.ShippingPhone, &o.ShippingAddress,
			&o.ShippingCity, &o.ShippingState, &o.ShippingZip, &o.ShippingCountry, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	r.logger.Printf("order repo: status id=%s status=%s", id, status)
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) fetchItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
SELECT i.id::text, i.order_id::text, i.product_id::text, i.quantity, i.price_cents,
       p.name, p.slug, p.sku, p.price_cents, p.stock, p.images
FROM order_items i
JOIN products p ON p.id = i.product_id
WHERE i.order_id = $1
ORDER BY i.id ASC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var prod domain.Product
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceCents,
			&prod.Name, &prod.Slug, &prod.SKU, &prod.PriceCents, &prod.Stock, &prod.Images,
		); err != nil {
			return nil, err
		}
		prod.ID = item.ProductID
		item.Product = &prod
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
