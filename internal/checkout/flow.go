package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.uber.org/zap"
)

// Cart is the part of the cart engine the flow reads and clears.
type Cart interface {
	GetCartTotals(ctx context.Context) (domain.CartSnapshot, error)
	ClearCart(ctx context.Context) error
}

// OrderNotifier receives placed orders. It must not block.
type OrderNotifier interface {
	NotifyOrder(order domain.Order)
}

// Flow is the checkout form state machine. It is not resumable: state lives
// only in memory.
type Flow struct {
	cart     Cart
	notifier OrderNotifier
	numbers  *OrderNumbers
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	state    domain.CheckoutState
	snapshot *domain.CartSnapshot
	payment  *domain.PaymentSelection
}

// NewFlow returns an idle flow. A nil numbers uses a fresh generator.
func NewFlow(cart Cart, notifier OrderNotifier, numbers *OrderNumbers, l *zap.Logger) *Flow {
	if numbers == nil {
		numbers = NewOrderNumbers(nil)
	}
	return &Flow{
		cart:     cart,
		notifier: notifier,
		numbers:  numbers,
		logger:   logger.OrNop(l),
		now:      time.Now,
		state:    domain.CheckoutStateIdle,
	}
}

// View is the read-only state of the flow.
type View struct {
	State    domain.CheckoutState     `json:"state"`
	Snapshot *domain.CartSnapshot     `json:"snapshot,omitempty"`
	Payment  *domain.PaymentSelection `json:"payment,omitempty"`
}

func (f *Flow) State() domain.CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// View returns copies, never the flow's own snapshot.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{State: f.state}
	if f.snapshot != nil {
		s := f.snapshot.Clone()
		v.Snapshot = &s
	}
	if f.payment != nil {
		p := *f.payment
		v.Payment = &p
	}
	return v
}

// Open snapshots the priced cart and shows the form. An empty cart keeps the
// flow Idle. The cart is priced without holding the lock, so the state is
// checked again before the snapshot is committed.
func (f *Flow) Open(ctx context.Context) (domain.CartSnapshot, error) {
	if err := f.canOpen(); err != nil {
		return domain.CartSnapshot{}, err
	}

	snapshot, err := f.cart.GetCartTotals(ctx)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	if snapshot.IsEmpty() {
		return domain.CartSnapshot{}, ErrCartEmpty
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !domain.CanTransitionTo(f.state, domain.CheckoutStateFormOpen) {
		return domain.CartSnapshot{}, fmt.Errorf("%w: open from %s", ErrIllegalTransition, f.state)
	}
	f.snapshot = &snapshot
	f.payment = nil
	f.transition(ctx, domain.CheckoutStateFormOpen)
	return snapshot.Clone(), nil
}

func (f *Flow) canOpen() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !domain.CanTransitionTo(f.state, domain.CheckoutStateFormOpen) {
		return fmt.Errorf("%w: open from %s", ErrIllegalTransition, f.state)
	}
	return nil
}

// SelectPayment replaces any previous selection.
func (f *Flow) SelectPayment(ctx context.Context, sel domain.PaymentSelection) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !domain.CanTransitionTo(f.state, domain.CheckoutStatePaymentSelected) {
		return fmt.Errorf("%w: select payment from %s", ErrIllegalTransition, f.state)
	}
	if !sel.Method.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, sel.Method)
	}

	f.payment = &sel
	f.transition(ctx, domain.CheckoutStatePaymentSelected)
	return nil
}

// Submit places the order. On success the cart is cleared, the notifier is
// handed the order without waiting for it and the flow is back to Idle. Any
// failure leaves the state unchanged.
func (f *Flow) Submit(ctx context.Context, customer domain.Customer) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case domain.CheckoutStateFormOpen:
		return domain.Order{}, ErrPaymentMethodRequired
	case domain.CheckoutStatePaymentSelected:
	default:
		return domain.Order{}, fmt.Errorf("%w: submit from %s", ErrIllegalTransition, f.state)
	}

	if err := validate(customer, *f.payment); err != nil {
		return domain.Order{}, err
	}

	order := domain.NewOrder(f.numbers.Next(), customer, *f.payment, *f.snapshot, f.now())

	if err := f.cart.ClearCart(ctx); err != nil {
		return domain.Order{}, fmt.Errorf("failed to place order: %w", err)
	}

	logger.WithContext(ctx, f.logger).Info("order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_method", order.Payment.Method.String()),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("lines", len(order.LineItems)))

	if f.notifier != nil {
		f.notifier.NotifyOrder(order)
	}

	f.transition(ctx, domain.CheckoutStateSubmitted)
	f.settle(ctx)
	return order, nil
}

// Cancel discards the snapshot and returns to Idle. The live cart is not
// touched. Cancelling an idle flow does nothing.
func (f *Flow) Cancel(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == domain.CheckoutStateIdle {
		return nil
	}
	if !domain.CanTransitionTo(f.state, domain.CheckoutStateCancelled) {
		return fmt.Errorf("%w: cancel from %s", ErrIllegalTransition, f.state)
	}

	f.transition(ctx, domain.CheckoutStateCancelled)
	f.settle(ctx)
	return nil
}

// settle hands a terminal state back to Idle and drops the snapshot.
func (f *Flow) settle(ctx context.Context) {
	if !f.state.IsTerminal() {
		return
	}
	f.snapshot = nil
	f.payment = nil
	f.transition(ctx, domain.CheckoutStateIdle)
}

func (f *Flow) transition(ctx context.Context, to domain.CheckoutState) {
	logger.WithContext(ctx, f.logger).Debug("checkout state changed",
		zap.Stringer("from", f.state), zap.Stringer("to", to))
	f.state = to
}

func validate(c domain.Customer, p domain.PaymentSelection) error {
	fields := map[string]string{}
	required := []struct {
		name  string
		value string
	}{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"city", c.City},
		{"address", c.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			fields[r.name] = "required"
		}
	}
	for _, name := range p.MissingFields() {
		fields[name] = "required for " + p.Method.DisplayName()
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
