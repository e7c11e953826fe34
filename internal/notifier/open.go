package notifier

import (
	"fmt"

	"github.com/fjod/go_storefront/internal/config"
	"go.uber.org/zap"
)

// Open builds the notifier selected by cfg.Backend.
func Open(cfg config.NotifierConfig, l *zap.Logger) (Notifier, error) {
	switch cfg.Backend {
	case config.NotifierLog:
		return NewLogNotifier(l), nil
	case config.NotifierSMTP:
		return NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom), nil
	case config.NotifierKafka:
		return NewKafkaRelay(cfg.KafkaTopic, cfg.KafkaBrokers...), nil
	default:
		return nil, fmt.Errorf("unknown notifier backend %q", cfg.Backend)
	}
}
