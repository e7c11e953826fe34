package catalog

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnavailable     = errors.New("catalog unavailable")
)

// ProductCatalog is the read-only product source.
type ProductCatalog interface {
	ListCategories(ctx context.Context) ([]string, error)
	// ListProducts returns every product when category is empty.
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}
