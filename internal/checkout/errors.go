package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrCartEmpty             = errors.New("cart is empty")
	ErrPaymentMethodRequired = errors.New("select a payment method")
	ErrInvalidPaymentMethod  = errors.New("unknown payment method")
	ErrIllegalTransition     = errors.New("illegal transition of checkout state")
)

// ValidationError lists required form fields left empty, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("missing required fields: %s", strings.Join(names, ", "))
}
