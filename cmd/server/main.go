package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/tracking-metrics/internal/audit"
	"github.com/Schera-ole/tracking-metrics/internal/config"
	"github.com/Schera-ole/tracking-metrics/internal/handler"
	"github.com/Schera-ole/tracking-metrics/internal/migration"
	models "github.com/Schera-ole/tracking-metrics/internal/model"
	"github.com/Schera-ole/tracking-metrics/internal/repository"
	"github.com/Schera-ole/tracking-metrics/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.NewServerConfig()
	if err != nil {
		sugar.Fatalf("failed to load configuration: %v", err)
	}

	var storage repository.Repository
	if cfg.DatabaseDSN != "" {
		if err := migration.RunMigrations(cfg.DatabaseDSN, sugar); err != nil {
			sugar.Fatalf("failed to run migrations: %v", err)
		}
		dbStorage, err := repository.NewDBStorage(cfg.DatabaseDSN)
		if err != nil {
			sugar.Fatalf("failed to connect to database: %v", err)
		}
		defer dbStorage.Close()
		storage = dbStorage
	} else {
		sugar.Info("no database dsn provided, using in-memory storage")
		storage = repository.NewMemStorage()
	}

	metricService := service.NewMetricsService(storage)

	eventChan := make(chan models.AuditEvent, 100)
	auditLogger := audit.NewAuditLogger(eventChan, sugar)
	var subscribers []chan<- models.AuditEvent
	if cfg.AuditFile != "" {
		fileChan := make(chan models.AuditEvent, 100)
		go audit.FileSubscriber(fileChan, cfg.AuditFile, sugar)
		subscribers = append(subscribers, fileChan)
	}
	if cfg.AuditURL != "" {
		urlChan := make(chan models.AuditEvent, 100)
		go audit.URLSubscriber(urlChan, cfg.AuditURL, sugar)
		subscribers = append(subscribers, urlChan)
	}
	go audit.Broadcaster(eventChan, sugar, subscribers...)
	defer close(eventChan)

	server := &http.Server{
		Addr:    cfg.Address,
		Handler: handler.Router(sugar, metricService, auditLogger),
	}

	go func() {
		sugar.Infof("server listening on %s", cfg.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		sugar.Errorf("forced shutdown: %v", err)
	}
}
