package entity

// ShippingInfo is the all-or-nothing group of destination fields attached to
// an order together with the customer email.
type ShippingInfo struct {
	Country    string
	Address    string
	PostalCode string
	City       string
	Province   string
}

// Complete reports whether every shipping field is set.
func (s ShippingInfo) Complete() bool {
	return s.Country != "" && s.Address != "" && s.PostalCode != "" &&
		s.City != "" && s.Province != ""
}

// Order is a single-product purchase moving through the
// created → addressed → paid lifecycle.
type Order struct {
	ID    int64
	Email string

	Shipping ShippingInfo

	// ProductID references the external catalog id of the purchased product.
	ProductID int64
	Quantity  int64

	// Derived totals, in cents. Recomputed from the product, quantity and
	// shipping province on every read and update — never set by clients.
	TotalPrice    int64
	TotalPriceTax int64
	ShippingPrice int64

	// Paid is monotonic: once true it never reverts.
	Paid bool

	// CreditCard and Transaction hold the structures echoed back by the
	// payment processor. Empty until payment succeeds.
	CreditCard  map[string]any
	Transaction map[string]any
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusCreated   OrderStatus = "CREATED"
	StatusAddressed OrderStatus = "ADDRESSED"
	StatusPaid      OrderStatus = "PAID"
)

// Addressed reports whether the order carries a complete set of customer
// information, the precondition for accepting a payment.
func (o *Order) Addressed() bool {
	return o.Email != "" && o.Shipping.Complete()
}

// Status derives the lifecycle state from the order's fields.
func (o *Order) Status() OrderStatus {
	switch {
	case o.Paid:
		return StatusPaid
	case o.Addressed():
		return StatusAddressed
	default:
		return StatusCreated
	}
}
