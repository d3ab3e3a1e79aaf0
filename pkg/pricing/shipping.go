// Package pricing holds the money rules shared by carts and orders.
package pricing

import "github.com/shopspring/decimal"

var (
	// FlatShippingFee is charged on orders below FreeShippingThreshold.
	FlatShippingFee = decimal.NewFromInt(500)
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = decimal.NewFromInt(5000)
)

// ShippingFee returns zero when subtotal reaches the threshold, the flat fee otherwise.
func ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

// LineSubtotal multiplies a unit price by a quantity.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
