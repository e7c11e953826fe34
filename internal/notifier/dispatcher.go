package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.uber.org/zap"
)

// Toaster shows a short outcome message to the shopper.
type Toaster interface {
	Toast(text string, isError bool)
}

// Dispatcher sends order confirmations on detached goroutines. The caller
// never waits and never sees the outcome; it is only logged and toasted.
type Dispatcher struct {
	notifier Notifier
	toaster  Toaster
	timeout  time.Duration
	logger   *zap.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

func NewDispatcher(n Notifier, toaster Toaster, timeout time.Duration, l *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: n,
		toaster:  toaster,
		timeout:  timeout,
		logger:   logger.OrNop(l),
	}
}

// NotifyOrder returns immediately. Orders arriving after Close are dropped
// with a log line.
func (d *Dispatcher) NotifyOrder(order domain.Order) {
	msg, err := FromOrder(order)
	if err != nil {
		d.logger.Error("failed to build confirmation", zap.String("order_number", order.OrderNumber), zap.Error(err))
		d.toast("Failed to send email", true)
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("dispatcher closed, confirmation dropped", zap.String("order_number", order.OrderNumber))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		d.send(msg)
	}()
}

func (d *Dispatcher) send(msg Message) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.notifier.Send(ctx, msg); err != nil {
		d.logger.Warn("failed to send confirmation",
			zap.String("order_number", msg.OrderNumber), zap.String("to", msg.To), zap.Error(err))
		d.toast("Failed to send email", true)
		return
	}

	d.logger.Info("confirmation sent", zap.String("order_number", msg.OrderNumber), zap.String("to", msg.To))
	d.toast("Email sent to "+msg.To, false)
}

func (d *Dispatcher) toast(text string, isError bool) {
	if d.toaster != nil {
		d.toaster.Toast(text, isError)
	}
}

// Close stops accepting orders and waits for in-flight sends until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
