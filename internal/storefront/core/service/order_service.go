// Package service implements the order lifecycle: creation against stock,
// customer-information attachment, and the one-shot payment settlement.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/apperrors"
	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront-api/internal/storefront/core/ports"
	"github.com/jcmexdev/storefront-api/internal/storefront/core/pricing"
)

// OrderService orchestrates the order state machine over the catalog store,
// the order store and the payment gateway.
type OrderService struct {
	products ports.ProductRepository
	orders   ports.OrderRepository
	catalog  ports.CatalogSource
	gateway  ports.PaymentGateway

	// loadMu guards the count-then-insert sequence of LoadCatalog against
	// concurrent startup paths.
	loadMu sync.Mutex

	// Updates to a single order are recompute-then-save sequences; the keyed
	// mutex serializes them per order id.
	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// New wires an OrderService from its ports.
func New(
	products ports.ProductRepository,
	orders ports.OrderRepository,
	catalog ports.CatalogSource,
	gateway ports.PaymentGateway,
) *OrderService {
	return &OrderService{
		products: products,
		orders:   orders,
		catalog:  catalog,
		gateway:  gateway,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// LoadCatalog populates the product store from the remote catalog. It is a
// no-op when products are already loaded, so restarting against an existing
// database does not re-fetch. Any fetch or insert failure must abort startup:
// the catalog is authoritative-once, not resilient-per-request.
func (s *OrderService) LoadCatalog(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	count, err := s.products.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if count > 0 {
		slog.InfoContext(ctx, "catalog already loaded", "products", count)
		return nil
	}

	products, err := s.catalog.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if err := s.products.InsertProducts(ctx, products); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	slog.InfoContext(ctx, "catalog loaded", "products", len(products))
	return nil
}

// ListProducts returns the whole catalog, ordered by catalog id.
func (s *OrderService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return s.products.ListProducts(ctx)
}

// CreateOrder starts a new order for quantity units of the given product.
// The product must exist and be in stock; the quantity must be at least one.
func (s *OrderService) CreateOrder(ctx context.Context, productID, quantity int64) (*entity.Order, error) {
	if quantity < 1 {
		return nil, apperrors.MissingProductFields()
	}

	product, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.OutOfInventory()
		}
		return nil, err
	}
	if !product.InStock {
		return nil, apperrors.OutOfInventory()
	}

	order := &entity.Order{
		ProductID: product.ID,
		Quantity:  quantity,
	}
	s.applyTotals(order, product)

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order created", "order_id", order.ID, "product_id", productID, "quantity", quantity)
	return order, nil
}

// GetOrder returns an order with freshly computed totals. The recomputed
// values are persisted so a stale quantity or province is never served.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	unlock := s.lockOrder(id)
	defer unlock()

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTotals(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// AttachCustomerInfo sets the email and the shipping destination on an order
// and recomputes its totals (the province drives the tax rate). Email and all
// five shipping fields are mandatory as a group.
func (s *OrderService) AttachCustomerInfo(ctx context.Context, id int64, email string, shipping entity.ShippingInfo) (*entity.Order, error) {
	if email == "" || !shipping.Complete() {
		return nil, apperrors.MissingOrderFields()
	}

	unlock := s.lockOrder(id)
	defer unlock()

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Email = email
	order.Shipping = shipping

	if err := s.refreshTotals(ctx, order); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "customer info attached", "order_id", id, "province", shipping.Province)
	return order, nil
}

// AttachPayment settles an order. The order must be fully addressed and not
// yet paid. The card and the amount (tax-inclusive total plus the shipping
// fee) are sent to the payment processor in a single attempt; a processor
// rejection is returned as *apperrors.GatewayError for verbatim passthrough.
func (s *OrderService) AttachPayment(ctx context.Context, id int64, creditCard map[string]any) (*entity.Order, error) {
	unlock := s.lockOrder(id)
	defer unlock()

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Paid {
		return nil, apperrors.AlreadyPaid()
	}
	if !order.Addressed() {
		return nil, apperrors.CustomerInfoRequired()
	}

	if err := s.refreshTotals(ctx, order); err != nil {
		return nil, err
	}

	amountCharged := order.TotalPriceTax + order.ShippingPrice

	status, body, err := s.gateway.Charge(ctx, creditCard, amountCharged)
	if err != nil {
		return nil, fmt.Errorf("%w: charge order %d: %v", apperrors.ErrUpstreamUnavailable, id, err)
	}
	if status != 200 {
		slog.WarnContext(ctx, "payment declined by processor", "order_id", id, "status", status)
		return nil, &apperrors.GatewayError{StatusCode: status, Body: body}
	}

	order.CreditCard = asObject(body["credit_card"])
	order.Transaction = asObject(body["transaction"])
	order.Paid = true

	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order paid", "order_id", id, "amount_charged", amountCharged)
	return order, nil
}

// refreshTotals recomputes the order's derived totals from current product
// data and persists them.
func (s *OrderService) refreshTotals(ctx context.Context, order *entity.Order) error {
	product, err := s.products.FindProduct(ctx, order.ProductID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	s.applyTotals(order, product)
	return s.orders.UpdateOrder(ctx, order)
}

func (s *OrderService) applyTotals(order *entity.Order, product *entity.Product) {
	totals := pricing.ComputeTotals(product, order.Quantity, order.Shipping.Province)
	order.TotalPrice = totals.TotalPrice
	order.TotalPriceTax = totals.TotalPriceTax
	order.ShippingPrice = totals.ShippingPrice
}

// lockOrder acquires the per-order mutex and returns its release function.
func (s *OrderService) lockOrder(id int64) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
