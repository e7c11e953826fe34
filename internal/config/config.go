package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"

	NotifierLog   = "log"
	NotifierSMTP  = "smtp"
	NotifierKafka = "kafka"
)

type Config struct {
	HTTPPort        string
	Environment     string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Catalog         CatalogConfig
	Store           StoreConfig
	Shipping        ShippingConfig
	Notifier        NotifierConfig
}

type CatalogConfig struct {
	BaseURL string // e.g. https://dummyjson.com
	Timeout time.Duration
}

type StoreConfig struct {
	Backend        string
	Namespace      string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SQLitePath     string
	MigrationsPath string
	MongoURI       string
	MongoDBName    string
}

// ShippingConfig holds the shipping policy. Shipping is free when the
// subtotal is strictly greater than FreeThreshold.
type ShippingConfig struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
}

type NotifierConfig struct {
	Backend      string
	Timeout      time.Duration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	KafkaBrokers []string
	KafkaTopic   string

	// Relay settings are read by cmd/notify-relay only.
	RelayGroupID  string
	RelayDelivery string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	// .env is optional, environment variables are enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	requestTimeout, err := getDuration("REQUEST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	catalogTimeout, err := getDuration("CATALOG_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	notifierTimeout, err := getDuration("NOTIFIER_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	redisDB, err := getInt("REDIS_DB", "0")
	if err != nil {
		return nil, err
	}
	smtpPort, err := getInt("SMTP_PORT", "587")
	if err != nil {
		return nil, err
	}
	threshold, err := getDecimal("FREE_SHIPPING_THRESHOLD", "50.00")
	if err != nil {
		return nil, err
	}
	fee, err := getDecimal("FLAT_SHIPPING_FEE", "9.99")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:        getEnvOrViper("HTTP_PORT", "8080"),
		Environment:     getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:        getEnvOrViper("LOG_LEVEL", "info"),
		RequestTimeout:  requestTimeout,
		ShutdownTimeout: shutdownTimeout,
		Catalog: CatalogConfig{
			BaseURL: strings.TrimSpace(getEnvOrViper("CATALOG_BASE_URL", "https://dummyjson.com")),
			Timeout: catalogTimeout,
		},
		Store: StoreConfig{
			Backend:        strings.ToLower(getEnvOrViper("STORE_BACKEND", StoreMemory)),
			Namespace:      getEnvOrViper("STORE_NAMESPACE", "default"),
			RedisAddr:      getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			RedisPassword:  getEnvOrViper("REDIS_PASSWORD", ""),
			RedisDB:        redisDB,
			SQLitePath:     getEnvOrViper("SQLITE_PATH", "./storefront.db"),
			MigrationsPath: getEnvOrViper("MIGRATIONS_PATH", "./internal/storage/migrations"),
			MongoURI:       getEnvOrViper("MONGO_URI", "mongodb://localhost:27017"),
			MongoDBName:    getEnvOrViper("MONGO_DB_NAME", "storefront"),
		},
		Shipping: ShippingConfig{
			FreeThreshold: threshold,
			FlatFee:       fee,
		},
		Notifier: NotifierConfig{
			Backend:      strings.ToLower(getEnvOrViper("NOTIFIER_BACKEND", NotifierLog)),
			Timeout:      notifierTimeout,
			SMTPHost:     getEnvOrViper("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     smtpPort,
			SMTPUser:     strings.TrimSpace(getEnvOrViper("SMTP_USER", "")),
			SMTPPassword: strings.TrimSpace(getEnvOrViper("SMTP_PASS", "")),
			SMTPFrom:     getEnvOrViper("SMTP_FROM", "noreply@storefront.local"),
			KafkaBrokers: splitList(getEnvOrViper("KAFKA_BROKERS", "localhost:9092")),
			KafkaTopic:   getEnvOrViper("KAFKA_NOTIFY_TOPIC", "order-notifications"),

			RelayGroupID:  getEnvOrViper("RELAY_GROUP_ID", "storefront-mail-relay"),
			RelayDelivery: strings.ToLower(getEnvOrViper("RELAY_DELIVERY", NotifierLog)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreRedis, StoreSQLite, StoreMongo:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.Notifier.Backend {
	case NotifierLog:
	case NotifierSMTP:
		if c.Notifier.SMTPUser == "" || c.Notifier.SMTPPassword == "" {
			return fmt.Errorf("SMTP_USER and SMTP_PASS are required for the smtp notifier")
		}
	case NotifierKafka:
		if len(c.Notifier.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required for the kafka notifier")
		}
	default:
		return fmt.Errorf("unknown NOTIFIER_BACKEND %q", c.Notifier.Backend)
	}
	switch c.Notifier.RelayDelivery {
	case NotifierLog:
	case NotifierSMTP:
		if c.Notifier.SMTPUser == "" || c.Notifier.SMTPPassword == "" {
			return fmt.Errorf("SMTP_USER and SMTP_PASS are required for smtp relay delivery")
		}
	default:
		return fmt.Errorf("RELAY_DELIVERY must be %q or %q", NotifierLog, NotifierSMTP)
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("CATALOG_BASE_URL is required")
	}
	if c.Shipping.FreeThreshold.IsNegative() || c.Shipping.FlatFee.IsNegative() {
		return fmt.Errorf("shipping threshold and fee must not be negative")
	}
	return nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getDuration(key, defaultValue string) (time.Duration, error) {
	raw := getEnvOrViper(key, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getInt(key, defaultValue string) (int, error) {
	raw := getEnvOrViper(key, defaultValue)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func getDecimal(key, defaultValue string) (decimal.Decimal, error) {
	raw := getEnvOrViper(key, defaultValue)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
