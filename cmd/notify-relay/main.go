package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/notifier"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.uber.org/zap"
)

// notify-relay consumes order confirmations published by the storefront's
// kafka notifier and delivers them by mail.
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

	delivery := cfg.Notifier
	delivery.Backend = cfg.Notifier.RelayDelivery
	next, err := notifier.Open(delivery, l)
	if err != nil {
		l.Fatal("Failed to create delivery notifier", zap.Error(err))
	}

	consumer := notifier.NewRelayConsumer(next, cfg.Notifier.KafkaTopic, cfg.Notifier.RelayGroupID, l, cfg.Notifier.KafkaBrokers...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Info("Relay consuming",
			zap.String("topic", cfg.Notifier.KafkaTopic),
			zap.Strings("brokers", cfg.Notifier.KafkaBrokers),
			zap.String("delivery", delivery.Backend))
		consumer.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down relay...")
	cancel()
	<-done
	if err := consumer.Close(); err != nil {
		l.Warn("error closing kafka reader", zap.Error(err))
	}
	l.Info("Relay stopped")
}
