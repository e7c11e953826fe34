package cart

import "github.com/shopspring/decimal"

// ShippingPolicy charges FlatFee unless the subtotal is strictly greater
// than FreeThreshold.
type ShippingPolicy struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
}

func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeThreshold: decimal.RequireFromString("50.00"),
		FlatFee:       decimal.RequireFromString("9.99"),
	}
}

// Shipping is zero for an empty cart.
func (p ShippingPolicy) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || subtotal.GreaterThan(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.FlatFee
}
