package ports

import (
	"context"

	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/entity"
)

// ProductRepository is the port for the catalog store. The service depends
// on this abstraction, not on SQLite directly, so the implementation can be
// swapped (Postgres, in-memory for tests, ...).
type ProductRepository interface {
	// CountProducts reports how many products are loaded. Used by the
	// load-once guard at startup.
	CountProducts(ctx context.Context) (int64, error)

	// InsertProducts stores the whole catalog in a single transaction.
	InsertProducts(ctx context.Context, products []entity.Product) error

	// ListProducts returns every product ordered by catalog id ascending.
	ListProducts(ctx context.Context) ([]entity.Product, error)

	// FindProduct returns the product with the given catalog id, or
	// apperrors.ErrNotFound.
	FindProduct(ctx context.Context, id int64) (*entity.Product, error)
}

// OrderRepository is the port for order persistence.
type OrderRepository interface {
	// CreateOrder persists a new order and assigns its sequential id.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// GetOrder returns the order with the given id, or apperrors.ErrNotFound.
	GetOrder(ctx context.Context, id int64) (*entity.Order, error)

	// UpdateOrder overwrites the mutable fields of an existing order.
	UpdateOrder(ctx context.Context, order *entity.Order) error
}
