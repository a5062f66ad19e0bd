package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/Nest-Microservices-dev/orders-ms/internal/app"
	"github.com/Nest-Microservices-dev/orders-ms/internal/version"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(cfg app.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// configFiles возвращает явный путь из -config или файлы по умолчанию.
func configFiles(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (default: orders.yaml, /etc/orders-ms/config.yaml)")
	flag.Parse()

	cfg, err := app.LoadConfig(configFiles(*configPath)...)
	if err != nil {
		log.WithError(err).Fatal("не удалось загрузить конфигурацию")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"grpc_addr":      cfg.GRPCAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.Storage.Driver,
		"kafka_enabled":  cfg.Kafka.Enabled(),
		"version":        version.GetVersion(),
	}).Info("запускаем OrderService")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("OrderService остановлен")
}
