package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/view"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.uber.org/zap"
)

type Engine interface {
	AddToCart(ctx context.Context, productID int64) (cart.Result, error)
	RemoveFromCart(ctx context.Context, productID int64) (cart.Result, error)
	ChangeQuantity(ctx context.Context, productID int64, delta int) (cart.Result, error)
	AddToWishlist(ctx context.Context, productID int64) (cart.Result, error)
	RemoveFromWishlist(ctx context.Context, productID int64) (cart.Result, error)
	MoveToCart(ctx context.Context, productID int64) (cart.Result, error)
	Counters(ctx context.Context) (cart.Counters, error)
}

type Flow interface {
	Open(ctx context.Context) (domain.CartSnapshot, error)
	SelectPayment(ctx context.Context, sel domain.PaymentSelection) error
	Submit(ctx context.Context, customer domain.Customer) (domain.Order, error)
	Cancel(ctx context.Context) error
}

// Result is what the renderer needs after an action.
type Result struct {
	Action   Action               `json:"action"`
	Signal   cart.Signal          `json:"signal,omitempty"`
	Message  string               `json:"message,omitempty"`
	Counters *cart.Counters       `json:"counters,omitempty"`
	Details  *view.ProductDetails `json:"details,omitempty"`
	Checkout *view.CheckoutView   `json:"checkout,omitempty"`
	Order    *domain.Order        `json:"order,omitempty"`
}

type handlerFunc func(ctx context.Context, cmd Command) (Result, error)

// Table maps each action to its handler.
type Table struct {
	engine   Engine
	flow     Flow
	renderer *view.Renderer
	logger   *zap.Logger
	handlers map[Action]handlerFunc
}

func NewTable(engine Engine, flow Flow, renderer *view.Renderer, l *zap.Logger) *Table {
	t := &Table{
		engine:   engine,
		flow:     flow,
		renderer: renderer,
		logger:   logger.OrNop(l),
	}
	t.handlers = map[Action]handlerFunc{
		ActionDetails:        t.details,
		ActionAddToCart:      t.addToCart,
		ActionAddToWishlist:  t.addToWishlist,
		ActionRemove:         t.remove,
		ActionChangeQuantity: t.changeQuantity,
		ActionSelectPayment:  t.selectPayment,
		ActionSubmit:         t.submit,
		ActionCancel:         t.cancel,
		ActionCheckout:       t.openCheckout,
		ActionMoveToCart:     t.moveToCart,
	}
	return t
}

func (t *Table) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	h, ok := t.handlers[cmd.Action]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	res, err := h(ctx, cmd)
	if err != nil {
		logger.WithContext(ctx, t.logger).Debug("action rejected",
			zap.String("action", string(cmd.Action)), zap.Error(err))
		return Result{}, err
	}
	res.Action = cmd.Action
	return res, nil
}

func (t *Table) details(ctx context.Context, cmd Command) (Result, error) {
	if err := cmd.requireProduct(); err != nil {
		return Result{}, err
	}
	d, err := t.renderer.Details(ctx, cmd.ProductID)
	if err != nil {
		return Result{}, err
	}
	return Result{Details: &d}, nil
}

func (t *Table) addToCart(ctx context.Context, cmd Command) (Result, error) {
	if err := cmd.requireProduct(); err != nil {
		return Result{}, err
	}
	r, err := t.engine.AddToCart(ctx, cmd.ProductID)
	if err != nil {
		return Result{}, err
	}
	return fromEngine(r, cartMessage(r.Signal)), nil
}

func (t *Table) addToWishlist(ctx context.Context, cmd Command) (Result, error) {
	if err := cmd.requireProduct(); err != nil {
		return Result{}, err
	}
	r, err := t.engine.AddToWishlist(ctx, cmd.ProductID)
	if err != nil {
		return Result{}, err
	}
	msg := "Product added to wishlist!"
	if r.Signal == cart.SignalAlreadyPresent {
		msg = "Product already in wishlist."
	}
	return fromEngine(r, msg), nil
}

func (t *Table) remove(ctx context.Context, cmd Command) (Result, error) {
	if err := cmd.requireProduct(); err != nil {
		return Result{}, err
	}

	var (
		r   cart.Result
		err error
	)
	switch strings.ToLower(cmd.Target) {
	case "", TargetCart:
		r, err = t.engine.RemoveFromCart(ctx, cmd.ProductID)
	case TargetWishlist:
		r, err = t.engine.RemoveFromWishlist(ctx, cmd.ProductID)
	default:
		return Result{}, fmt.Errorf("%w: target must be %q or %q", ErrMissingArgument, TargetCart, TargetWishlist)
	}
	if err != nil {
		return Result{}, err
	}
	return fromEngine(r, ""), nil
}

func (t *Table) changeQuantity(ctx context.Context, cmd Command) (Result, error) {
	if err := cmd.requireProduct(); err != nil {
		return Result{}, err
	}
	r, err := t.engine.ChangeQuantity(ctx, cmd.ProductID, cmd.Delta)
	if err != nil {
		return Result{}, err
	}
	return fromEngine(r, ""), nil
}

func (t *Table) moveToCart(ctx context.Context, cmd Command) (Result, error) {
	if err := cmd.requireProduct(); err != nil {
		return Result{}, err
	}
	r, err := t.engine.MoveToCart(ctx, cmd.ProductID)
	if err != nil {
		return Result{}, err
	}
	return fromEngine(r, "Product moved to cart!"), nil
}

func (t *Table) openCheckout(ctx context.Context, _ Command) (Result, error) {
	if _, err := t.flow.Open(ctx); err != nil {
		return Result{}, err
	}
	t.renderer.Tracker().Begin(view.PanelCheckout)
	return t.checkoutResult(""), nil
}

func (t *Table) selectPayment(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Payment == nil {
		return Result{}, fmt.Errorf("%w: payment", ErrMissingArgument)
	}
	if err := t.flow.SelectPayment(ctx, *cmd.Payment); err != nil {
		return Result{}, err
	}
	return t.checkoutResult(""), nil
}

func (t *Table) submit(ctx context.Context, cmd Command) (Result, error) {
	var customer domain.Customer
	if cmd.Customer != nil {
		customer = *cmd.Customer
	}
	order, err := t.flow.Submit(ctx, customer)
	if err != nil {
		return Result{}, err
	}
	t.renderer.Tracker().Close(view.PanelCheckout)

	res := Result{Order: &order, Message: PlacedMessage(order)}
	if c, err := t.engine.Counters(ctx); err == nil {
		res.Counters = &c
	}
	return res, nil
}

func (t *Table) cancel(ctx context.Context, _ Command) (Result, error) {
	if err := t.flow.Cancel(ctx); err != nil {
		return Result{}, err
	}
	t.renderer.Tracker().Close(view.PanelCheckout)
	return t.checkoutResult(""), nil
}

func (t *Table) checkoutResult(msg string) Result {
	v := t.renderer.Checkout()
	return Result{Checkout: &v, Message: msg}
}

func fromEngine(r cart.Result, msg string) Result {
	c := r.Counters
	return Result{Signal: r.Signal, Message: msg, Counters: &c}
}

func cartMessage(s cart.Signal) string {
	if s == cart.SignalQuantityUpdated {
		return "Quantity updated in cart!"
	}
	return "Product added to cart!"
}

// PlacedMessage is the confirmation shown after a successful submit.
func PlacedMessage(o domain.Order) string {
	return fmt.Sprintf("Order placed successfully! 🎉\n\nOrder #: %s\nPayment: %s\n\nConfirmation email sent to %s.",
		o.OrderNumber, strings.ToUpper(o.Payment.Method.String()), o.Customer.Email)
}
