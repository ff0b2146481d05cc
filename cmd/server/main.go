package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ledgerapp "github.com/paul-kim93/ablcrossborder/internal/application/ledger"
	shipmentapp "github.com/paul-kim93/ablcrossborder/internal/application/shipment"
	statsapp "github.com/paul-kim93/ablcrossborder/internal/application/stats"
	"github.com/paul-kim93/ablcrossborder/internal/infrastructure/config"
	"github.com/paul-kim93/ablcrossborder/internal/infrastructure/logger"
	"github.com/paul-kim93/ablcrossborder/internal/infrastructure/persistence"
	"github.com/paul-kim93/ablcrossborder/internal/interfaces/http/handler"
	"github.com/paul-kim93/ablcrossborder/internal/interfaces/http/middleware"
	"github.com/paul-kim93/ablcrossborder/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting sales statistics backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	sellerRepo := persistence.NewGormSellerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	aggregationService := statsapp.NewAggregationService(txScope, log)
	rankingService := statsapp.NewRankingService(txScope, log)
	reconciler := statsapp.NewReconciler(txScope, aggregationService, rankingService, log)
	dashboardService := statsapp.NewDashboardService(txScope, log)
	shipmentService := shipmentapp.NewShipmentService(shipmentRepo, productRepo, log)
	orderService := ledgerapp.NewOrderService(txScope, reconciler, shipmentService, log)
	catalogService := ledgerapp.NewCatalogService(sellerRepo, productRepo, log)

	// Initialize HTTP handlers
	catalogHandler := handler.NewCatalogHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	shipmentHandler := handler.NewShipmentHandler(shipmentService)
	dashboardHandler := handler.NewDashboardHandler(
		dashboardService, rankingService, reconciler, cfg.Stats.DefaultChartDays,
	)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Catalog domain (sellers, products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/sellers", catalogHandler.CreateSeller)
	catalogRoutes.GET("/sellers", catalogHandler.ListSellers)
	catalogRoutes.GET("/sellers/:id", catalogHandler.GetSeller)
	catalogRoutes.GET("/sellers/:id/products", catalogHandler.ListProducts)
	catalogRoutes.POST("/products", catalogHandler.CreateProduct)
	catalogRoutes.GET("/products/:id", catalogHandler.GetProduct)
	// Product-scoped shipment reads
	catalogRoutes.GET("/products/:id/shipments", shipmentHandler.ListByProduct)
	catalogRoutes.GET("/products/:id/price-history", shipmentHandler.PriceHistory)
	catalogRoutes.GET("/products/:id/stock", shipmentHandler.ProductStock)

	// Ledger domain (order ingestion, status changes, price edits, mappings)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.POST("/orders", orderHandler.Ingest)
	ledgerRoutes.POST("/orders/:id/status", orderHandler.ChangeStatus)
	ledgerRoutes.PUT("/order-lines/:id/prices", orderHandler.EditLinePrices)
	ledgerRoutes.POST("/code-mappings", orderHandler.CreateMapping)

	// Shipment domain (arrivals, price changes, stock adjustments)
	shipmentRoutes := router.NewDomainGroup("shipments", "/shipments")
	shipmentRoutes.POST("", shipmentHandler.Create)
	shipmentRoutes.PUT("/:id/price", shipmentHandler.UpdatePrice)
	shipmentRoutes.POST("/:id/adjustments", shipmentHandler.AdjustStock)

	// Costing domain (FIFO consumption quotes)
	costingRoutes := router.NewDomainGroup("costing", "/costing")
	costingRoutes.POST("/quote", shipmentHandler.Quote)

	// Dashboard domain (precomputed statistics reads and maintenance)
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/summary", dashboardHandler.GetSummary)
	dashboardRoutes.GET("/sellers", dashboardHandler.GetSellerSummaries)
	dashboardRoutes.GET("/rankings", dashboardHandler.GetRankings)
	dashboardRoutes.GET("/chart", dashboardHandler.GetDailyChart)
	dashboardRoutes.POST("/refresh", dashboardHandler.Refresh)
	dashboardRoutes.POST("/consistency-check", dashboardHandler.VerifyConsistency)

	// Register all domain groups
	r.Register(catalogRoutes).
		Register(ledgerRoutes).
		Register(shipmentRoutes).
		Register(costingRoutes).
		Register(dashboardRoutes)

	// System routes
	systemHandler := handler.NewSystemHandler(cfg.App.Name)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
