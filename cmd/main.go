package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cadena-service/internal/chain"
	"cadena-service/internal/handler"
	"cadena-service/internal/store"
	"cadena-service/internal/store/memstore"
	"cadena-service/internal/store/mongostore"
	"cadena-service/internal/store/pgstore"
	"cadena-service/pkg/config"
	"cadena-service/pkg/database"
	"cadena-service/pkg/logger"
	"cadena-service/pkg/mongodb"
	"cadena-service/prometheus"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting cadena-service", cfg.LogFields()...)

	prometheus.InitMetrics(cfg.Metrics.Prefix, prom.DefaultRegisterer)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", cfg.Metrics.Prefix))

	gw, err := openStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize record store", zap.Error(err))
	}
	defer gw.Close(context.Background())
	log.Info("Record store ready", zap.String("driver", cfg.Store.Driver))

	e := handler.NewRouter(chain.NewService(gw, cfg.Chain))

	go func() {
		port := cfg.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}

func openStore(cfg *config.Config) (store.Gateway, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.InitDB(&cfg.Database, &pgstore.ChainRow{})
		if err != nil {
			return nil, err
		}
		return pgstore.New(db), nil
	case config.DriverMemory:
		return memstore.New(), nil
	default:
		ctx := context.Background()
		client, err := mongodb.Connect(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		s := mongostore.New(client, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil
	}
}
