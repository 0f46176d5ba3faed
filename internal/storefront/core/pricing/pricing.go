// Package pricing derives order totals from the product, the quantity and
// the destination province. It is pure computation: the same inputs always
// produce the same totals.
package pricing

import (
	"math"
	"strings"

	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/entity"
)

// Provincial tax rates, keyed by uppercased province code.
// Unknown or absent provinces are untaxed.
var taxRates = map[string]float64{
	"QC": 0.15,
	"ON": 0.13,
	"AB": 0.05,
	"BC": 0.12,
	"NS": 0.14,
}

// Shipping fee bands in cents, by total weight in grams.
const (
	feeLight  = 500  // up to 500 g
	feeMedium = 1000 // above 500 g, below 2 kg
	feeHeavy  = 2500 // 2 kg and above
)

// Totals is the derived money state of an order, all values in cents.
// TotalPriceTax excludes the shipping fee; the two are summed by the caller
// when charging the payment processor.
type Totals struct {
	TotalPrice    int64
	ShippingPrice int64
	TotalPriceTax int64
}

// ComputeTotals returns the totals for quantity units of product shipped to
// province. A nil product or non-positive quantity yields all-zero totals,
// the initial unpriced state of an order.
func ComputeTotals(product *entity.Product, quantity int64, province string) Totals {
	if product == nil || quantity <= 0 {
		return Totals{}
	}

	totalPrice := product.Price * quantity

	rate := taxRates[strings.ToUpper(province)]

	return Totals{
		TotalPrice:    totalPrice,
		ShippingPrice: shippingFee(product.Weight * quantity),
		// Round half-up; tax applies to the goods only, never to shipping.
		TotalPriceTax: int64(math.Round(float64(totalPrice) * (1.0 + rate))),
	}
}

// shippingFee maps a total shipment weight in grams onto the fixed fee bands.
func shippingFee(weightGrams int64) int64 {
	switch {
	case weightGrams <= 500:
		return feeLight
	case weightGrams < 2000:
		return feeMedium
	default:
		return feeHeavy
	}
}
