package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digital-wallet-backend/config"
	"digital-wallet-backend/internal/adapter/events/rabbitmq"
	httpHandler "digital-wallet-backend/internal/adapter/http/handler"
	"digital-wallet-backend/internal/adapter/provider"
	"digital-wallet-backend/internal/adapter/provider/fincra"
	"digital-wallet-backend/internal/adapter/provider/flutterwave"
	"digital-wallet-backend/internal/adapter/provider/paystack"
	pgStorage "digital-wallet-backend/internal/adapter/storage/postgres"
	redisStorage "digital-wallet-backend/internal/adapter/storage/redis"
	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/internal/service"
	"digital-wallet-backend/pkg/logger"

	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Digital Wallet Backend")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	userRepo := pgStorage.NewUserRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	lockStore := redisStorage.NewLockStore(rdb)
	codeStore := redisStorage.NewTransferCodeStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize ledger event publisher (optional)
	var publisher ports.EventPublisher = rabbitmq.NoopPublisher{}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		publisher = amqpPublisher
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("RabbitMQ connected")
	} else {
		log.Warn().Msg("AMQP URL not set, ledger event publishing disabled")
	}
	defer publisher.Close()

	// Initialize provider gateways and webhook normalizers
	gateways := provider.NewRegistry(
		paystack.NewGateway(cfg.Providers.Paystack, log),
		flutterwave.NewGateway(cfg.Providers.Flutterwave, log),
		fincra.NewGateway(cfg.Providers.Fincra, log),
	)
	normalizers := []ports.WebhookNormalizer{
		paystack.NewNormalizer(cfg.Providers.Paystack.WebhookSecret),
		flutterwave.NewNormalizer(cfg.Providers.Flutterwave.WebhookSecret),
		fincra.NewNormalizer(cfg.Providers.Fincra.WebhookSecret),
	}

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	feePercent, err := decimal.NewFromString(cfg.Transfer.FeePercent)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid transfer.fee_percent")
	}
	feeCap, err := decimal.NewFromString(cfg.Transfer.FeeCap)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid transfer.fee_cap")
	}

	// Initialize business services
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc)
	gate := service.NewSecurityGate(accountRepo, log)
	fees := service.NewFeeSchedule(feePercent, feeCap)
	ledgerSvc := service.NewLedgerService(accountRepo, ledgerRepo, transactor, log)
	transferSvc := service.NewTransferService(
		gate, fees, ledgerSvc, ledgerRepo, accountRepo,
		codeStore, lockStore, gateways, publisher,
		cfg.Transfer.LockTTL, cfg.Transfer.CodeTTL, log,
	)
	reconcileSvc := service.NewReconcileService(accountRepo, ledgerRepo, ledgerSvc, publisher, log)
	accountSvc := service.NewAccountService(
		accountRepo, userRepo, gateways,
		domain.Provider(cfg.Providers.Default), cfg.Transfer.DefaultDailyLimit, log,
	)
	reportingSvc := service.NewReportingService(ledgerRepo)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		AccountSvc:     accountSvc,
		TransferSvc:    transferSvc,
		ReconcileSvc:   reconcileSvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		Gateways:       gateways,
		Normalizers:    normalizers,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
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
