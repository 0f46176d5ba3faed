package ports

import (
	"context"

	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/entity"
)

// CatalogSource fetches the authoritative product list from the remote shop.
// It is consumed exactly once, at startup.
type CatalogSource interface {
	Fetch(ctx context.Context) ([]entity.Product, error)
}

// PaymentGateway is the port for the remote payment processor.
type PaymentGateway interface {
	// Charge sends a single synchronous charge request and returns the remote
	// status code and parsed body unchanged. A non-nil error means the request
	// never completed (network failure, timeout); a non-200 status with a nil
	// error is a processor-level rejection whose body must reach the caller
	// verbatim. Charges are never retried: without idempotency keys a retry
	// risks double-billing.
	Charge(ctx context.Context, creditCard map[string]any, amountCharged int64) (status int, body map[string]any, err error)
}
