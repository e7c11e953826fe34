package view

import (
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	MessageCartEmpty     = "Your cart is empty"
	MessageWishlistEmpty = "Your wishlist is empty"

	PlaceholderCart     = "Error loading cart items."
	PlaceholderWishlist = "Error loading wishlist items."
	PlaceholderDetails  = "Failed to load product details. Please try again."
	PlaceholderProducts = "Failed to load products. Please check your internet connection and try again."
	PlaceholderMenu     = "Failed to load categories. Please refresh the page."
)

type CartLineView struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Lines        []CartLineView  `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	FreeShipping bool            `json:"free_shipping"`
	Empty        bool            `json:"empty"`
	Message      string          `json:"message,omitempty"`
	Counters     cart.Counters   `json:"counters"`
}

type ProductCard struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Thumbnail    string          `json:"thumbnail"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	CategoryName string          `json:"category_name"`
}

func NewProductCard(p domain.Product) ProductCard {
	return ProductCard{
		ID:           p.ID,
		Title:        p.Title,
		Thumbnail:    p.Thumbnail(),
		Price:        p.Price,
		Category:     p.Category,
		CategoryName: domain.CategoryDisplayName(p.Category),
	}
}

type WishlistView struct {
	Items   []ProductCard `json:"items"`
	Empty   bool          `json:"empty"`
	Message string        `json:"message,omitempty"`
}

type ProductDetails struct {
	ProductCard
	Description        string           `json:"description"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	OriginalPrice      *decimal.Decimal `json:"original_price,omitempty"`
	InCart             bool             `json:"in_cart"`
	InWishlist         bool             `json:"in_wishlist"`
}

type PaymentOption struct {
	Method domain.PaymentMethod `json:"method"`
	Name   string               `json:"name"`
	Fields []string             `json:"fields"`
}

// PaymentOptions lists every method with the extra fields it needs.
func PaymentOptions() []PaymentOption {
	out := make([]PaymentOption, 0, len(domain.PaymentMethods))
	for _, m := range domain.PaymentMethods {
		fields := domain.PaymentSelection{Method: m}.MissingFields()
		if fields == nil {
			fields = []string{}
		}
		out = append(out, PaymentOption{Method: m, Name: m.DisplayName(), Fields: fields})
	}
	return out
}

type CheckoutView struct {
	checkout.View
	PaymentMethods []PaymentOption `json:"payment_methods"`
	Banks          []domain.Bank   `json:"banks"`
}
