// Package sqlite provides the SQLite-backed implementation of the product
// and order repositories.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa — the catalog bulk insert at startup and order updates share the
// same database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/apperrors"
	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/entity"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, keeping builds trivial in Docker (Alpine).
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Idempotent via IF NOT EXISTS,
// which makes opening an existing database a no-op.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    -- External catalog id, assigned by the remote shop. Not a surrogate key.
    id           INTEGER PRIMARY KEY,
    name         TEXT    NOT NULL,
    description  TEXT    NOT NULL DEFAULT '',
    -- Price in cents; money never leaves integer space in storage.
    price        INTEGER NOT NULL,
    -- Weight in grams.
    weight       INTEGER NOT NULL,
    in_stock     INTEGER NOT NULL,
    image        TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS orders (
    -- AUTOINCREMENT guarantees strictly increasing ids across the lifetime
    -- of the database, even after deletions.
    id               INTEGER PRIMARY KEY AUTOINCREMENT,

    email            TEXT    NOT NULL DEFAULT '',
    ship_country     TEXT    NOT NULL DEFAULT '',
    ship_address     TEXT    NOT NULL DEFAULT '',
    ship_postal_code TEXT    NOT NULL DEFAULT '',
    ship_city        TEXT    NOT NULL DEFAULT '',
    ship_province    TEXT    NOT NULL DEFAULT '',

    product_id       INTEGER NOT NULL REFERENCES products(id),
    quantity         INTEGER NOT NULL,

    -- Derived totals in cents; recomputed by the service, stored for reads.
    total_price      INTEGER NOT NULL DEFAULT 0,
    total_price_tax  INTEGER NOT NULL DEFAULT 0,
    shipping_price   INTEGER NOT NULL DEFAULT 0,

    paid             INTEGER NOT NULL DEFAULT 0,

    -- Card echo and transaction structures from the payment processor,
    -- serialized to JSON at this boundary only.
    credit_card      TEXT    NOT NULL DEFAULT '{}',
    transaction_data TEXT    NOT NULL DEFAULT '{}'
);
`

// Repository is the SQLite implementation of both ports.ProductRepository
// and ports.OrderRepository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./storefront.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver takes _pragma query parameters to configure the
	// connection. busy_timeout waits for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// CountProducts reports how many catalog entries are stored.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count products: %w", err)
	}
	return count, nil
}

// InsertProducts stores the catalog in one transaction so a partial load
// never survives a startup failure.
func (r *Repository) InsertProducts(ctx context.Context, products []entity.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin insert products: %w", err)
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO products (id, name, description, price, weight, in_stock, image)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, p := range products {
		if _, err := tx.ExecContext(ctx, q,
			p.ID, p.Name, p.Description, p.Price, p.Weight, boolToInt(p.InStock), p.Image,
		); err != nil {
			return fmt.Errorf("sqlite: insert product %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit insert products: %w", err)
	}
	return nil
}

// ListProducts returns every product ordered by catalog id ascending.
func (r *Repository) ListProducts(ctx context.Context) ([]entity.Product, error) {
	const q = `
		SELECT id, name, description, price, weight, in_stock, image
		FROM   products
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		var p entity.Product
		var inStock int64
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Weight, &inStock, &p.Image); err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		p.InStock = inStock != 0
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	return products, nil
}

// FindProduct returns the product with the given catalog id.
func (r *Repository) FindProduct(ctx context.Context, id int64) (*entity.Product, error) {
	const q = `
		SELECT id, name, description, price, weight, in_stock, image
		FROM   products
		WHERE  id = ?`

	var p entity.Product
	var inStock int64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Weight, &inStock, &p.Image,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: product %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find product %d: %w", id, err)
	}
	p.InStock = inStock != 0
	return &p, nil
}

// CreateOrder inserts a new order and assigns its id from the sequence.
func (r *Repository) CreateOrder(ctx context.Context, order *entity.Order) error {
	card, txn, err := marshalEchoes(order)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO orders
			(email, ship_country, ship_address, ship_postal_code, ship_city, ship_province,
			 product_id, quantity, total_price, total_price_tax, shipping_price, paid,
			 credit_card, transaction_data)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, q,
		order.Email,
		order.Shipping.Country, order.Shipping.Address, order.Shipping.PostalCode,
		order.Shipping.City, order.Shipping.Province,
		order.ProductID, order.Quantity,
		order.TotalPrice, order.TotalPriceTax, order.ShippingPrice,
		boolToInt(order.Paid),
		card, txn,
	)
	if err != nil {
		return fmt.Errorf("sqlite: create order: %w", err)
	}

	order.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: create order id: %w", err)
	}
	return nil
}

// GetOrder returns the order with the given id.
func (r *Repository) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	const q = `
		SELECT id, email, ship_country, ship_address, ship_postal_code, ship_city, ship_province,
		       product_id, quantity, total_price, total_price_tax, shipping_price, paid,
		       credit_card, transaction_data
		FROM   orders
		WHERE  id = ?`

	var o entity.Order
	var paid int64
	var card, txn string
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&o.ID, &o.Email,
		&o.Shipping.Country, &o.Shipping.Address, &o.Shipping.PostalCode,
		&o.Shipping.City, &o.Shipping.Province,
		&o.ProductID, &o.Quantity,
		&o.TotalPrice, &o.TotalPriceTax, &o.ShippingPrice,
		&paid, &card, &txn,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: order %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %d: %w", id, err)
	}

	o.Paid = paid != 0
	if o.CreditCard, err = unmarshalEcho(card); err != nil {
		return nil, fmt.Errorf("sqlite: order %d credit card: %w", id, err)
	}
	if o.Transaction, err = unmarshalEcho(txn); err != nil {
		return nil, fmt.Errorf("sqlite: order %d transaction: %w", id, err)
	}
	return &o, nil
}

// UpdateOrder overwrites the mutable fields of an existing order.
func (r *Repository) UpdateOrder(ctx context.Context, order *entity.Order) error {
	card, txn, err := marshalEchoes(order)
	if err != nil {
		return err
	}

	const q = `
		UPDATE orders
		SET    email = ?, ship_country = ?, ship_address = ?, ship_postal_code = ?,
		       ship_city = ?, ship_province = ?, quantity = ?,
		       total_price = ?, total_price_tax = ?, shipping_price = ?,
		       paid = ?, credit_card = ?, transaction_data = ?
		WHERE  id = ?`

	res, err := r.db.ExecContext(ctx, q,
		order.Email,
		order.Shipping.Country, order.Shipping.Address, order.Shipping.PostalCode,
		order.Shipping.City, order.Shipping.Province,
		order.Quantity,
		order.TotalPrice, order.TotalPriceTax, order.ShippingPrice,
		boolToInt(order.Paid),
		card, txn,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update order %d: %w", order.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update order %d: %w", order.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("sqlite: order %d: %w", order.ID, apperrors.ErrNotFound)
	}
	return nil
}

// marshalEchoes serializes the card and transaction structures for storage.
// Nil maps store as "{}" so reads never deal with NULL.
func marshalEchoes(order *entity.Order) (card string, txn string, err error) {
	c, err := json.Marshal(orEmpty(order.CreditCard))
	if err != nil {
		return "", "", fmt.Errorf("sqlite: marshal credit card: %w", err)
	}
	t, err := json.Marshal(orEmpty(order.Transaction))
	if err != nil {
		return "", "", fmt.Errorf("sqlite: marshal transaction: %w", err)
	}
	return string(c), string(t), nil
}

func unmarshalEcho(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
