// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"broilerfarm/internal/domain"
	"broilerfarm/internal/domain/auth"
	"broilerfarm/internal/domain/batch"
	"broilerfarm/internal/domain/finance"
	"broilerfarm/internal/domain/reconcile"
	"broilerfarm/internal/domain/reports"
	"broilerfarm/internal/domain/supply"
	"broilerfarm/internal/infrastructure/http/v1/handlers"
	"broilerfarm/internal/infrastructure/http/v1/middleware"
	"broilerfarm/internal/infrastructure/notify"
	"broilerfarm/internal/infrastructure/storage/postgres"
	"broilerfarm/internal/infrastructure/storage/postgres/batch_repo"
	"broilerfarm/internal/infrastructure/storage/postgres/finance_repo"
	"broilerfarm/internal/infrastructure/storage/postgres/record_repo"
	"broilerfarm/internal/infrastructure/storage/postgres/report_repo"
	"broilerfarm/internal/infrastructure/storage/postgres/supply_repo"
	"broilerfarm/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (health checks, idempotency)
	Pool *postgres.Pool

	// TxManager wraps the pool for transactional repositories
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Notifications enqueues low-stock alerts; nil disables alerting
	Notifications *postgres.NotificationQueue

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool

	// IdempotencyTTL bounds how long completed keys are replayable
	IdempotencyTTL time.Duration
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	{
		registerAuthRoutes(api, cfg)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		if cfg.IdempotencyEnabled {
			ttl := cfg.IdempotencyTTL
			if ttl <= 0 {
				ttl = 10 * time.Minute
			}
			store := postgres.NewIdempotencyStore(cfg.Pool, cfg.TxManager, ttl)
			protected.Use(middleware.Idempotency(store))
		}

		registerFarmRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerFarmRoutes wires the batch, record, supply and finance
// endpoints. All event record mutations run through the reconciliation
// engine so batch aggregates and supply stock stay consistent.
func registerFarmRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	batchRepo := batch_repo.NewRepo(cfg.TxManager)
	supplyRepo := supply_repo.NewRepo(cfg.TxManager)
	mortalityRepo := record_repo.NewMortalityRepo(cfg.TxManager)
	feedRepo := record_repo.NewFeedRepo(cfg.TxManager)
	weightRepo := record_repo.NewWeightRepo(cfg.TxManager)
	salesRepo := record_repo.NewSalesRepo(cfg.TxManager)
	expenseRepo := record_repo.NewExpenseRepo(cfg.TxManager)
	healthRepo := record_repo.NewHealthRepo(cfg.TxManager)

	engine := reconcile.NewEngine(
		cfg.TxManager,
		batchRepo,
		supplyRepo,
		mortalityRepo,
		feedRepo,
		weightRepo,
		salesRepo,
		expenseRepo,
		healthRepo,
	)

	// Low-stock alerts fire from both stock-writing paths: engine
	// events (feed, health, expense) and manual supply updates.
	var alerter *notify.LowStockAlerter
	if cfg.Notifications != nil {
		alerter = notify.NewLowStockAlerter(cfg.Notifications)
		engine.SupplyHooks().On(domain.AfterUpdate, alerter.OnSupplyUpdate)
	}

	// --- BATCHES ---
	{
		service := batch.NewService(batchRepo, cfg.TxManager)
		handler := handlers.NewBatchHandler(baseHandler, service, engine)
		handler.RegisterRoutes(rg.Group("/batches"))
	}

	// --- SUPPLY ITEMS ---
	{
		service := supply.NewService(supplyRepo, cfg.TxManager)
		if alerter != nil {
			service.Hooks().On(domain.AfterUpdate, alerter.OnSupplyUpdate)
		}
		handler := handlers.NewSupplyHandler(baseHandler, service)
		handler.RegisterRoutes(rg.Group("/supplies"))
	}

	// --- FINANCIAL TRANSACTIONS ---
	{
		service := finance.NewService(finance_repo.NewRepo(cfg.TxManager), cfg.TxManager)
		handler := handlers.NewFinanceHandler(baseHandler, service)
		handler.RegisterRoutes(rg.Group("/transactions"))
	}

	// --- EVENT RECORDS ---
	RegisterRecordRoutes(rg.Group("/mortality"), handlers.NewMortalityHandler(baseHandler, engine, mortalityRepo))
	RegisterRecordRoutes(rg.Group("/feed"), handlers.NewFeedHandler(baseHandler, engine, feedRepo))
	RegisterRecordRoutes(rg.Group("/weights"), handlers.NewWeightHandler(baseHandler, engine, weightRepo))
	RegisterRecordRoutes(rg.Group("/sales"), handlers.NewSalesHandler(baseHandler, engine, salesRepo))
	RegisterRecordRoutes(rg.Group("/expenses"), handlers.NewExpenseHandler(baseHandler, engine, expenseRepo))
	RegisterRecordRoutes(rg.Group("/health-records"), handlers.NewHealthRecordHandler(baseHandler, engine, healthRepo))
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	reportService := reports.NewService(report_repo.NewReportRepo(cfg.TxManager))
	reportHandler := handlers.NewReportsHandler(baseHandler, reportService)
	reportHandler.RegisterRoutes(rg.Group("/reports"))
}
