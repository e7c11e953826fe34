package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// Order is built once at checkout submission and never mutated afterwards.
type Order struct {
	OrderNumber string             `json:"order_number"`
	Customer    Customer           `json:"customer"`
	Payment     PaymentSelection   `json:"payment"`
	LineItems   []CartSnapshotItem `json:"line_items"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Shipping    decimal.Decimal    `json:"shipping"`
	Total       decimal.Decimal    `json:"total"`
	Currency    string             `json:"currency"`
	PlacedAt    time.Time          `json:"placed_at"`
}

// NewOrder copies the snapshot lines so the order never aliases the live cart.
func NewOrder(number string, customer Customer, payment PaymentSelection, snapshot CartSnapshot, placedAt time.Time) Order {
	s := snapshot.Clone()
	return Order{
		OrderNumber: number,
		Customer:    customer,
		Payment:     payment,
		LineItems:   s.Items,
		Subtotal:    s.Subtotal,
		Shipping:    s.Shipping,
		Total:       s.Total,
		Currency:    s.Currency,
		PlacedAt:    placedAt,
	}
}
