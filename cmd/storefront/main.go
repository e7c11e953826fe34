package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/dispatch"
	h "github.com/fjod/go_storefront/internal/http"
	"github.com/fjod/go_storefront/internal/notifier"
	"github.com/fjod/go_storefront/internal/storage"
	"github.com/fjod/go_storefront/internal/view"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	ctx := context.Background()

	kv, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		l.Fatal("Failed to open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer kv.Close()
	l.Info("Store opened", zap.String("backend", cfg.Store.Backend), zap.String("namespace", cfg.Store.Namespace))

	products := catalog.NewMemo(catalog.NewHTTPClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, l))

	engine := cart.NewEngine(
		storage.NewStore(kv, cfg.Store.Namespace, l),
		products,
		cart.ShippingPolicy{FreeThreshold: cfg.Shipping.FreeThreshold, FlatFee: cfg.Shipping.FlatFee},
		l,
	)

	toasts := view.NewToastFeed(0)

	n, err := notifier.Open(cfg.Notifier, l)
	if err != nil {
		l.Fatal("Failed to create notifier", zap.Error(err))
	}
	if c, ok := n.(io.Closer); ok {
		defer c.Close()
	}
	notifications := notifier.NewDispatcher(n, toasts, cfg.Notifier.Timeout, l)

	flow := checkout.NewFlow(engine, notifications, checkout.NewOrderNumbers(nil), l)
	renderer := view.NewRenderer(engine, flow, products, view.NewTracker(), l)

	handler := h.NewHandler(h.Options{
		Renderer:      renderer,
		Dispatcher:    dispatch.NewTable(engine, flow, renderer, l),
		Counters:      engine,
		Notifications: toasts,
		Checkout:      flow,
		Timeout:       cfg.RequestTimeout,
		Logger:        l,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		l.Info("Storefront starting", zap.String("port", cfg.HTTPPort), zap.String("catalog", cfg.Catalog.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down storefront...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := notifications.Close(shutdownCtx); err != nil {
		l.Warn("Pending confirmations abandoned", zap.Error(err))
	}
	l.Info("Storefront stopped")
}
