package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is read-only catalog data. Field tags follow the dummyjson payload.
type Product struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Rating             float64         `json:"rating,omitempty"`
	Stock              int             `json:"stock,omitempty"`
	Brand              string          `json:"brand,omitempty"`
	ThumbnailURL       string          `json:"thumbnail"`
	ImageURL           string          `json:"image,omitempty"`
}

// Thumbnail falls back to the full image when the catalog has no thumbnail.
func (p Product) Thumbnail() string {
	if p.ThumbnailURL != "" {
		return p.ThumbnailURL
	}
	return p.ImageURL
}

func (p Product) HasDiscount() bool {
	return p.DiscountPercentage.IsPositive() && p.DiscountPercentage.LessThan(decimal.NewFromInt(100))
}

// OriginalPrice is the pre-discount price rounded to cents. Without a
// discount it equals Price.
func (p Product) OriginalPrice() decimal.Decimal {
	if !p.HasDiscount() {
		return p.Price
	}
	hundred := decimal.NewFromInt(100)
	factor := decimal.NewFromInt(1).Sub(p.DiscountPercentage.Div(hundred))
	return p.Price.Div(factor).Round(2)
}

// CategoryDisplayName turns a slug like "home-decoration" into "Home decoration".
func CategoryDisplayName(slug string) string {
	if slug == "" {
		return ""
	}
	return strings.ToUpper(slug[:1]) + strings.ReplaceAll(slug[1:], "-", " ")
}
