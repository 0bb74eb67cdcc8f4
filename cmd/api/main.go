package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tempmailgen/internal/admin"
	"tempmailgen/internal/api"
	"tempmailgen/internal/config"
	"tempmailgen/internal/identity"
	"tempmailgen/internal/logging"
	"tempmailgen/internal/mailbox"
	"tempmailgen/internal/redisstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := api.Options{
		Identity: identity.New(nil),
		Mailbox: mailbox.New(mailbox.Options{
			BaseURL: cfg.TempMailBaseURL,
			APIKey:  cfg.TempMailAPIKey,
			Timeout: cfg.TempMailTimeout(),
			Logger:  logger,
			Metrics: mailbox.NewMetrics(reg),
		}),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:  logger,
	}

	var store *redisstore.Store
	if cfg.StatsEnabled() {
		store, err = redisstore.New(cfg.RedisURL, cfg.StatsTTL())
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer store.Close()
		opts.Stats = store
	}

	if cfg.AdminEnabled() {
		var stats admin.StatsReader
		if store != nil {
			stats = store
		}

		opts.Admin, err = admin.NewHandler(cfg.AdminPassword, cfg.JWTSecret, stats, logger)
		if err != nil {
			logger.Fatal("Failed to set up admin endpoints", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.New(opts).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting",
			zap.String("addr", srv.Addr),
			zap.Bool("stats", cfg.StatsEnabled()),
			zap.Bool("admin", cfg.AdminEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting")
}
