package main

import (
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/Nest-Microservices-dev/orders-ms/internal/app"
)

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() {
		log.SetFormatter(&log.TextFormatter{})
		log.SetLevel(log.InfoLevel)
	})

	cfg := app.DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"
	setupLogger(cfg)

	if log.GetLevel() != log.DebugLevel {
		t.Fatalf("expected debug level, got %s", log.GetLevel())
	}
	if _, ok := log.StandardLogger().Formatter.(*log.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter, got %T", log.StandardLogger().Formatter)
	}

	cfg.LogLevel = "not-a-level"
	cfg.LogFormat = "text"
	setupLogger(cfg)

	if log.GetLevel() != log.InfoLevel {
		t.Fatalf("expected fallback to info, got %s", log.GetLevel())
	}
	if _, ok := log.StandardLogger().Formatter.(*log.TextFormatter); !ok {
		t.Fatalf("expected text formatter, got %T", log.StandardLogger().Formatter)
	}
}

func TestConfigFiles(t *testing.T) {
	if files := configFiles(""); files != nil {
		t.Fatalf("expected default files, got %v", files)
	}
	files := configFiles("/tmp/orders.yaml")
	if len(files) != 1 || files[0] != "/tmp/orders.yaml" {
		t.Fatalf("unexpected files: %v", files)
	}
}
