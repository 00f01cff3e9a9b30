package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exchange-relay/config"
	httpHandler "exchange-relay/internal/adapter/http/handler"
	"exchange-relay/internal/adapter/metrics"
	pgStorage "exchange-relay/internal/adapter/storage/postgres"
	redisStorage "exchange-relay/internal/adapter/storage/redis"
	"exchange-relay/internal/core/ports"
	"exchange-relay/internal/service"
	"exchange-relay/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("RELAY_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("sign_scheme", cfg.Exchange.SignScheme).
		Msg("Starting exchange relay")

	ctx := context.Background()
	var healthCheckers []ports.HealthChecker

	// Relay log storage (optional)
	var relayRepo ports.RelayLogRepository
	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		if err := pgStorage.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply relay log schema")
		}
		relayRepo = pgStorage.NewRelayLogRepo(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
	}

	// Ticker cache (optional)
	var cache ports.ResponseCache
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		cache = redisStorage.NewResponseCache(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	// Metrics (optional)
	var collector *metrics.Collector
	var relayMetrics ports.RelayMetrics
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		relayMetrics = collector
	}

	// Core services
	sigSvc, err := service.NewSignatureService(cfg.Exchange.SignScheme)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize signature service")
	}
	auditSvc := service.NewAuditService(relayRepo, logger.Component(log, "relay_log"))
	forwarder := service.NewForwarder(
		&http.Client{Timeout: cfg.Upstream.Timeout},
		auditSvc,
		relayMetrics,
		logger.Component(log, "forwarder"),
	)

	newsSvc := service.NewNewsService(forwarder, cfg.Upstream.NewsURL)
	infoSvc := service.NewInfoService(forwarder, cfg.Upstream.InfoBaseURL)
	exchangeSvc := service.NewExchangeService(forwarder, sigSvc, cache, relayMetrics, service.ExchangeConfig{
		BaseURL:      cfg.Upstream.ExchangeBaseURL,
		RecvWindowMs: cfg.Exchange.RecvWindowMs,
		TickerTTL:    cfg.Cache.TickerTTL,
	}, logger.Component(log, "exchange"))

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		NewsSvc:        newsSvc,
		InfoSvc:        infoSvc,
		ExchangeSvc:    exchangeSvc,
		HealthCheckers: healthCheckers,
		Metrics:        collector,
		Logger:         logger.Component(log, "http"),
	})

	// HTTP Server with graceful shutdown
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
