package httpx

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/entity"
)

type productResponse struct {
	Name        string  `json:"name"`
	ID          int64   `json:"id"`
	InStock     bool    `json:"in_stock"`
	Description *string `json:"description"`
	Price       int64   `json:"price"`
	Weight      int64   `json:"weight"`
	Image       *string `json:"image"`
}

type productsResponse struct {
	Products []productResponse `json:"products"`
}

type orderProductResponse struct {
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
}

type orderResponse struct {
	ID                  int64                `json:"id"`
	TotalPrice          int64                `json:"total_price"`
	TotalPriceTax       int64                `json:"total_price_tax"`
	Email               *string              `json:"email"`
	CreditCard          map[string]any       `json:"credit_card"`
	ShippingInformation map[string]string    `json:"shipping_information"`
	Paid                bool                 `json:"paid"`
	Transaction         map[string]any       `json:"transaction"`
	Product             orderProductResponse `json:"product"`
	ShippingPrice       int64                `json:"shipping_price"`
}

type orderEnvelope struct {
	Order orderResponse `json:"order"`
}

type customerInfoPayload struct {
	Email               string          `json:"email"`
	ShippingInformation shippingPayload `json:"shipping_information"`
}

type shippingPayload struct {
	Country    string `json:"country"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Province   string `json:"province"`
}

func mapProductToResponse(p entity.Product) productResponse {
	return productResponse{
		Name:        p.Name,
		ID:          p.ID,
		InStock:     p.InStock,
		Description: nullable(p.Description),
		Price:       p.Price,
		Weight:      p.Weight,
		Image:       nullable(p.Image),
	}
}

func mapOrderToResponse(o *entity.Order) orderResponse {
	shipping := map[string]string{}
	if o.Shipping != (entity.ShippingInfo{}) {
		shipping = map[string]string{
			"country":     o.Shipping.Country,
			"address":     o.Shipping.Address,
			"postal_code": o.Shipping.PostalCode,
			"city":        o.Shipping.City,
			"province":    o.Shipping.Province,
		}
	}

	return orderResponse{
		ID:                  o.ID,
		TotalPrice:          o.TotalPrice,
		TotalPriceTax:       o.TotalPriceTax,
		Email:               nullable(o.Email),
		CreditCard:          orEmpty(o.CreditCard),
		ShippingInformation: shipping,
		Paid:                o.Paid,
		Transaction:         orEmpty(o.Transaction),
		Product: orderProductResponse{
			ID:       o.ProductID,
			Quantity: o.Quantity,
		},
		ShippingPrice: o.ShippingPrice,
	}
}

// decodePayload reads the request body as a JSON object. Malformed or absent
// JSON yields an empty payload, which falls through to the applicable
// missing-fields error instead of a parse failure.
func decodePayload(body io.Reader) map[string]json.RawMessage {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return map[string]json.RawMessage{}
	}
	if payload == nil {
		return map[string]json.RawMessage{}
	}
	return payload
}

// parseProductRef extracts the (id, quantity) pair from the create payload's
// product value. The value must be object-shaped with both keys present and
// integer-coercible; anything else reports false.
func parseProductRef(raw json.RawMessage) (productID, quantity int64, ok bool) {
	if raw == nil {
		return 0, 0, false
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return 0, 0, false
	}

	idValue, hasID := obj["id"]
	qtyValue, hasQty := obj["quantity"]
	if !hasID || !hasQty {
		return 0, 0, false
	}

	productID, ok = asInt64(idValue)
	if !ok {
		return 0, 0, false
	}
	quantity, ok = asInt64(qtyValue)
	if !ok {
		return 0, 0, false
	}
	return productID, quantity, true
}

// asInt64 coerces a decoded JSON value to an integer: numbers truncate,
// numeric strings parse.
func asInt64(v any) (int64, bool) {
	switch value := v.(type) {
	case float64:
		return int64(value), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
