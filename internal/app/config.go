package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	validatorv10 "github.com/go-playground/validator/v10"
)

const (
	// StorageDriverMemory хранит заказы в памяти процесса.
	StorageDriverMemory = "memory"
	// StorageDriverPostgres хранит заказы в PostgreSQL.
	StorageDriverPostgres = "postgres"

	envPrefix = "ORDERS"
)

// DefaultConfigFiles проверяются при загрузке, отсутствующие файлы пропускаются.
var DefaultConfigFiles = []string{"orders.yaml", "/etc/orders-ms/config.yaml"}

// Config описывает настройки запуска сервиса заказов.
// Значения читаются из переменных окружения с префиксом ORDERS_ и YAML-файлов.
type Config struct {
	GRPCAddr        string        `default:":50051" env:"GRPC_ADDR" yaml:"grpc_addr" usage:"gRPC listen address" validate:"required"`
	MetricsAddr     string        `default:":9090" env:"METRICS_ADDR" yaml:"metrics_addr" usage:"HTTP address for /metrics and health probes"`
	ShutdownTimeout time.Duration `default:"5s" env:"SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout" usage:"Graceful shutdown limit" validate:"gt=0"`
	PaymentCurrency string        `default:"usd" env:"PAYMENT_CURRENCY" yaml:"payment_currency" usage:"Currency of payment sessions" validate:"required,len=3"`
	LogLevel        string        `default:"info" env:"LOG_LEVEL" yaml:"log_level" validate:"oneof=trace debug info warn warning error"`
	LogFormat       string        `default:"text" env:"LOG_FORMAT" yaml:"log_format" validate:"oneof=text json"`

	Storage      StorageConfig      `env:"STORAGE" yaml:"storage"`
	Integrations IntegrationsConfig `env:"INTEGRATIONS" yaml:"integrations"`
	Kafka        KafkaConfig        `env:"KAFKA" yaml:"kafka"`
}

// StorageConfig выбирает хранилище заказов.
type StorageConfig struct {
	Driver      string `default:"memory" env:"DRIVER" yaml:"driver" usage:"memory or postgres" validate:"oneof=memory postgres"`
	PostgresDSN string `env:"POSTGRES_DSN" yaml:"postgres_dsn" usage:"PostgreSQL connection URL" validate:"required_if=Driver postgres"`
	AutoMigrate bool   `default:"true" env:"AUTO_MIGRATE" yaml:"auto_migrate" usage:"Apply embedded migrations on start"`
}

// IntegrationsConfig описывает соседние сервисы каталога и платежей.
type IntegrationsConfig struct {
	ProductsAddr    string        `env:"PRODUCTS_ADDR" yaml:"products_addr" usage:"gRPC target of the products service" validate:"required_unless=AllowMocks true"`
	PaymentsAddr    string        `env:"PAYMENTS_ADDR" yaml:"payments_addr" usage:"gRPC target of the payments service" validate:"required_unless=AllowMocks true"`
	ProductsTimeout time.Duration `default:"3s" env:"PRODUCTS_TIMEOUT" yaml:"products_timeout" validate:"gt=0"`
	PaymentsTimeout time.Duration `default:"5s" env:"PAYMENTS_TIMEOUT" yaml:"payments_timeout" validate:"gt=0"`
	// AllowMocks подставляет in-process заглушки для незаданных адресов.
	AllowMocks bool `default:"true" env:"ALLOW_MOCKS" yaml:"allow_mocks" usage:"Use in-process mocks when a service address is empty"`
}

// KafkaConfig настраивает публикацию событий и приём подтверждений оплаты.
// Пустой список брокеров отключает Kafka целиком.
type KafkaConfig struct {
	Brokers       []string `env:"BROKERS" yaml:"brokers" usage:"Comma separated Kafka brokers"`
	ConsumerGroup string   `default:"orders-ms" env:"CONSUMER_GROUP" yaml:"consumer_group" validate:"required"`
	EventsTopic   string   `default:"orders.events" env:"EVENTS_TOPIC" yaml:"events_topic" validate:"required"`
	PaymentsTopic string   `default:"payments.succeeded" env:"PAYMENTS_TOPIC" yaml:"payments_topic" validate:"required"`
	DLQTopic      string   `default:"orders.dlq" env:"DLQ_TOPIC" yaml:"dlq_topic" validate:"required"`
	MaxRetries    int      `default:"3" env:"MAX_RETRIES" yaml:"max_retries" validate:"gte=0"`

	RetryBackoff    time.Duration `default:"100ms" env:"RETRY_BACKOFF" yaml:"retry_backoff" validate:"gte=0"`
	MaxRetryBackoff time.Duration `default:"5s" env:"MAX_RETRY_BACKOFF" yaml:"max_retry_backoff" validate:"gtefield=RetryBackoff"`
}

// Enabled сообщает, настроены ли брокеры.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// DefaultConfig возвращает значения по умолчанию без чтения окружения и файлов.
func DefaultConfig() Config {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipEnv:   true,
		SkipFiles: true,
		SkipFlags: true,
	})
	if err := loader.Load(); err != nil {
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return cfg
}

// LoadConfig читает конфигурацию из окружения (ORDERS_*) и YAML-файлов, затем проверяет её.
// Если files не переданы, используются DefaultConfigFiles.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = DefaultConfigFiles
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:          envPrefix,
		SkipFlags:          true,
		AllowUnknownEnvs:   true,
		AllowUnknownFields: true,
		Files:              files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
			".yml":  aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	if err := validatorv10.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.PaymentCurrency = strings.ToLower(strings.TrimSpace(c.PaymentCurrency))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	brokers := c.Kafka.Brokers[:0]
	for _, broker := range c.Kafka.Brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	c.Kafka.Brokers = brokers
}
