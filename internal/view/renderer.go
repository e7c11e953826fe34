package view

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.uber.org/zap"
)

// CartSource is the read side of the cart engine.
type CartSource interface {
	GetCartTotals(ctx context.Context) (domain.CartSnapshot, error)
	WishlistProducts(ctx context.Context) ([]domain.Product, error)
	Cart(ctx context.Context) (domain.Cart, error)
	Wishlist(ctx context.Context) (domain.Wishlist, error)
	Counters(ctx context.Context) (cart.Counters, error)
}

type CheckoutSource interface {
	View() checkout.View
}

// Renderer turns engine and flow state into view models. Renders that wait
// on the catalog are guarded by the tracker and fail with ErrStaleView when
// their panel was closed or re-rendered meanwhile.
type Renderer struct {
	cart     CartSource
	checkout CheckoutSource
	catalog  catalog.ProductCatalog
	tracker  *Tracker
	logger   *zap.Logger
}

func NewRenderer(c CartSource, co CheckoutSource, pc catalog.ProductCatalog, tracker *Tracker, l *zap.Logger) *Renderer {
	return &Renderer{
		cart:     c,
		checkout: co,
		catalog:  pc,
		tracker:  tracker,
		logger:   logger.OrNop(l),
	}
}

func (r *Renderer) Tracker() *Tracker {
	return r.tracker
}

func (r *Renderer) Cart(ctx context.Context) (CartView, error) {
	tok := r.tracker.Begin(PanelCart)

	totals, err := r.cart.GetCartTotals(ctx)
	if !r.tracker.Active(tok) {
		return CartView{}, ErrStaleView
	}
	if err != nil {
		return CartView{}, r.unavailable(ctx, PlaceholderCart, err)
	}
	counters, err := r.cart.Counters(ctx)
	if err != nil {
		return CartView{}, r.unavailable(ctx, PlaceholderCart, err)
	}

	v := CartView{
		Lines:        make([]CartLineView, 0, len(totals.Items)),
		Subtotal:     totals.Subtotal,
		Shipping:     totals.Shipping,
		Total:        totals.Total,
		Currency:     totals.Currency,
		FreeShipping: totals.FreeShipping(),
		Empty:        totals.IsEmpty(),
		Counters:     counters,
	}
	for _, it := range totals.Items {
		v.Lines = append(v.Lines, CartLineView{
			ProductID: it.ProductID,
			Title:     it.ProductName,
			Thumbnail: it.Thumbnail,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.Subtotal,
		})
	}
	if v.Empty {
		v.Message = MessageCartEmpty
	}
	return v, nil
}

func (r *Renderer) Wishlist(ctx context.Context) (WishlistView, error) {
	tok := r.tracker.Begin(PanelWishlist)

	products, err := r.cart.WishlistProducts(ctx)
	if !r.tracker.Active(tok) {
		return WishlistView{}, ErrStaleView
	}
	if err != nil {
		return WishlistView{}, r.unavailable(ctx, PlaceholderWishlist, err)
	}

	v := WishlistView{Items: make([]ProductCard, 0, len(products))}
	for _, p := range products {
		v.Items = append(v.Items, NewProductCard(p))
	}
	if len(v.Items) == 0 {
		v.Empty = true
		v.Message = MessageWishlistEmpty
	}
	return v, nil
}

// Details renders one product. An unknown id is returned as
// catalog.ErrProductNotFound, not as a placeholder.
func (r *Renderer) Details(ctx context.Context, id int64) (ProductDetails, error) {
	tok := r.tracker.Begin(PanelDetails)

	p, err := r.catalog.GetProduct(ctx, id)
	if !r.tracker.Active(tok) {
		return ProductDetails{}, ErrStaleView
	}
	if errors.Is(err, catalog.ErrProductNotFound) {
		return ProductDetails{}, err
	}
	if err != nil {
		return ProductDetails{}, r.unavailable(ctx, PlaceholderDetails, err)
	}

	d := ProductDetails{
		ProductCard:        NewProductCard(p),
		Description:        p.Description,
		DiscountPercentage: p.DiscountPercentage,
	}
	if p.HasDiscount() {
		original := p.OriginalPrice()
		d.OriginalPrice = &original
	}
	if c, err := r.cart.Cart(ctx); err == nil {
		d.InCart = c.Has(id)
	}
	if w, err := r.cart.Wishlist(ctx); err == nil {
		d.InWishlist = w.Contains(id)
	}
	return d, nil
}

func (r *Renderer) Checkout() CheckoutView {
	return CheckoutView{
		View:           r.checkout.View(),
		PaymentMethods: PaymentOptions(),
		Banks:          domain.Banks,
	}
}

func (r *Renderer) Products(ctx context.Context, category string) ([]ProductCard, error) {
	products, err := r.catalog.ListProducts(ctx, category)
	if err != nil {
		return nil, r.unavailable(ctx, PlaceholderProducts, err)
	}
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, NewProductCard(p))
	}
	return cards, nil
}

func (r *Renderer) Menu(ctx context.Context) ([]catalog.MenuGroup, error) {
	categories, err := r.catalog.ListCategories(ctx)
	if err != nil {
		return nil, r.unavailable(ctx, PlaceholderMenu, err)
	}
	return catalog.BuildMenu(categories), nil
}

func (r *Renderer) Categories(ctx context.Context) ([]catalog.MenuEntry, error) {
	categories, err := r.catalog.ListCategories(ctx)
	if err != nil {
		return nil, r.unavailable(ctx, PlaceholderMenu, err)
	}
	out := make([]catalog.MenuEntry, 0, len(categories))
	for _, c := range categories {
		out = append(out, catalog.MenuEntry{Slug: c, Name: domain.CategoryDisplayName(c)})
	}
	return out, nil
}

func (r *Renderer) unavailable(ctx context.Context, placeholder string, err error) error {
	logger.WithContext(ctx, r.logger).Warn("render failed", zap.String("placeholder", placeholder), zap.Error(err))
	return &UnavailableError{Placeholder: placeholder, Err: err}
}
