package handler

import (
	"digital-wallet-backend/internal/adapter/http/middleware"
	redisStore "digital-wallet-backend/internal/adapter/storage/redis"
	"digital-wallet-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	AccountSvc     ports.AccountService
	TransferSvc    ports.TransferService
	ReconcileSvc   ports.ReconcileService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	Gateways       ports.GatewaySelector
	Normalizers    []ports.WebhookNormalizer
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Provider webhooks: authenticated by signature, never by JWT.
	webhookHandler := NewWebhookHandler(deps.ReconcileSvc, deps.Logger, deps.Normalizers...)
	r.POST("/webhooks/:provider", webhookHandler.Receive)

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	accountHandler := NewAccountHandler(deps.AccountSvc)
	transferHandler := NewTransferHandler(deps.TransferSvc, deps.ReportingSvc)
	bankHandler := NewBankHandler(deps.Gateways)

	accounts := v1.Group("/accounts", jwtAuth)
	{
		accounts.POST("", rl("accounts_create"), accountHandler.Create)
		accounts.GET("", rl("read"), accountHandler.List)
		accounts.GET("/:id/provider-balance", rl("read"), accountHandler.ProviderBalance)
	}

	transfers := v1.Group("/transfers", jwtAuth)
	{
		transfers.POST("/validate", rl("transfers_resolve"), transferHandler.Validate)
		transfers.POST("", rl("transfers"), transferHandler.Transfer)
		transfers.POST("/:reference/verify", rl("read"), transferHandler.Verify)
	}

	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.GET("", rl("read"), transferHandler.ListTransactions)
	}

	banks := v1.Group("/banks", jwtAuth)
	{
		banks.GET("", rl("read"), bankHandler.List)
		banks.POST("/resolve", rl("transfers_resolve"), bankHandler.Resolve)
	}

	return r
}
