package cart

import "errors"

var (
	// ErrTotalsUnavailable means at least one cart line could not be priced.
	// Callers must not fall back to a zero total.
	ErrTotalsUnavailable = errors.New("cart totals unavailable")
	ErrInvalidProductID  = errors.New("invalid product id")
)
