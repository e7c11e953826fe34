package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartSnapshotItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartSnapshot represents the resolved cart with totals at a point in time.
type CartSnapshot struct {
	Items      []CartSnapshotItem `json:"items"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Shipping   decimal.Decimal    `json:"shipping"`
	Total      decimal.Decimal    `json:"total"`
	Currency   string             `json:"currency"`
	CapturedAt time.Time          `json:"captured_at"`
}

func (s CartSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s CartSnapshot) FreeShipping() bool {
	return !s.IsEmpty() && s.Shipping.IsZero()
}

// Clone returns a snapshot that shares no slice with s.
func (s CartSnapshot) Clone() CartSnapshot {
	out := s
	out.Items = make([]CartSnapshotItem, len(s.Items))
	copy(out.Items, s.Items)
	return out
}
