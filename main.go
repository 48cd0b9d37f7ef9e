package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pricehive/pricehive/internal/handler"
	"github.com/pricehive/pricehive/internal/middleware"
	"github.com/pricehive/pricehive/internal/repository"
	"github.com/pricehive/pricehive/internal/service"
	"github.com/pricehive/pricehive/internal/worker"
	"github.com/pricehive/pricehive/pkg/config"
	"github.com/pricehive/pricehive/pkg/database"
	"github.com/pricehive/pricehive/pkg/logger"
	"github.com/pricehive/pricehive/pkg/redis"
	"github.com/pricehive/pricehive/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       logLevel(cfg),
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting PriceHive API...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
		ServiceName:     cfg.App.Name,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Run embedded migrations
	if err := db.Migrate(); err != nil {
		appLog.Fatal(fmt.Sprintf("Database migration failed: %v", err))
	}

	// Initialize Redis (Google sessions, idempotency records)
	redisCfg := &redis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	}
	cache, err := redis.NewClient(ctx, redisCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
	}
	defer cache.Close()
	appLog.Info(fmt.Sprintf("Redis connected (%s)", redisCfg.Addr()))

	// Initialize repositories
	userRepo := repository.NewPostgresUserRepository(db.Pool())
	catalogRepo := repository.NewPostgresCatalogRepository(db.Pool())
	priceRepo := repository.NewPostgresPriceRepository(db.Pool())
	listRepo := repository.NewPostgresShoppingListRepository(db.Pool())
	socialRepo := repository.NewPostgresSocialRepository(db.Pool())
	alertRepo := repository.NewPostgresAlertRepository(db.Pool())
	notificationRepo := repository.NewPostgresNotificationRepository(db.Pool())
	sessionRepo := repository.NewRedisGoogleSessionRepository(cache)

	// Google login is optional, the provider is nil when not configured
	var google service.GoogleIdentityProvider
	if cfg.Google.Enabled() {
		redirectURL := cfg.App.BackendURL + "/api/auth/google/callback"
		google, err = service.NewGoogleIdentityProvider(ctx, cfg.Google.ClientID, cfg.Google.ClientSecret, redirectURL)
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Google OIDC discovery failed: %v", err))
		}
		appLog.Info("Google login enabled")
	} else {
		appLog.Info("Google login disabled (GOOGLE_CLIENT_ID not set)")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, sessionRepo, google, &service.AuthServiceConfig{
		JWTSecret:         cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.AccessTokenTTL,
		SessionTTL:        cfg.Google.SessionTTL,
		FrontendURL:       cfg.App.FrontendURL,
	})
	catalogService := service.NewCatalogService(catalogRepo, priceRepo)
	priceService := service.NewPriceService(priceRepo, catalogRepo, userRepo, alertRepo, notificationRepo)
	listService := service.NewShoppingListService(listRepo, priceRepo, userRepo)
	socialService := service.NewSocialService(socialRepo, userRepo)
	alertService := service.NewAlertService(alertRepo, notificationRepo, catalogRepo)
	analyticsService := service.NewAnalyticsService(priceRepo, catalogRepo, userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	priceHandler := handler.NewPriceHandler(priceService)
	listHandler := handler.NewShoppingListHandler(listService)
	socialHandler := handler.NewSocialHandler(socialService)
	alertHandler := handler.NewAlertHandler(alertService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	healthHandler := handler.NewHealthHandler(db, cache)

	// Start the notification prune worker
	pruneWorker := worker.NewNotificationPruneWorker(notificationRepo, nil)
	if err := pruneWorker.Start(ctx); err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to start notification prune worker: %v", err))
	}
	defer pruneWorker.Stop()

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.App.Name))
	}

	registerRoutes(router, routeDeps{
		auth:      authHandler,
		catalog:   catalogHandler,
		price:     priceHandler,
		list:      listHandler,
		social:    socialHandler,
		alert:     alertHandler,
		analytics: analyticsHandler,
		health:    healthHandler,

		authService: authService,
		cache:       cache,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("PriceHive API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}

type routeDeps struct {
	auth      *handler.AuthHandler
	catalog   *handler.CatalogHandler
	price     *handler.PriceHandler
	list      *handler.ShoppingListHandler
	social    *handler.SocialHandler
	alert     *handler.AlertHandler
	analytics *handler.AnalyticsHandler
	health    *handler.HealthHandler

	authService service.AuthService
	cache       *redis.Client
}

// registerRoutes wires the full API surface under /api.
func registerRoutes(router *gin.Engine, d routeDeps) {
	api := router.Group("/api")

	api.GET("/health", d.health.Health)
	api.GET("/ready", d.health.Ready)

	// Auth endpoints, no bearer required except /auth/me
	auth := api.Group("/auth")
	{
		auth.POST("/register", d.auth.Register)
		auth.POST("/login", d.auth.Login)
		auth.GET("/me", middleware.RequireAuth(d.authService), d.auth.Me)
		auth.GET("/google", d.auth.GoogleLogin)
		auth.GET("/google/callback", d.auth.GoogleCallback)
		auth.POST("/google/session", d.auth.GoogleSession)
		auth.POST("/logout", d.auth.Logout)
	}

	// Public catalog reads, no auth
	public := api.Group("/public")
	{
		public.GET("/supermarkets", d.catalog.ListSupermarkets)
		public.GET("/categories", d.catalog.ListCategories)
		public.GET("/products", d.catalog.ListProducts)
	}

	// Catalog administration: reads for any authenticated user,
	// writes for admins only
	admin := api.Group("/admin", middleware.RequireAuth(d.authService))
	adminWrite := admin.Group("", middleware.RequireAdmin())
	{
		adminWrite.POST("/categories", d.catalog.CreateCategory)
		admin.GET("/categories", d.catalog.ListCategories)
		adminWrite.PUT("/categories/:id", d.catalog.UpdateCategory)
		adminWrite.DELETE("/categories/:id", d.catalog.DeleteCategory)

		adminWrite.POST("/brands", d.catalog.CreateBrand)
		admin.GET("/brands", d.catalog.ListBrands)
		adminWrite.PUT("/brands/:id", d.catalog.UpdateBrand)
		adminWrite.DELETE("/brands/:id", d.catalog.DeleteBrand)

		adminWrite.POST("/supermarkets", d.catalog.CreateSupermarket)
		admin.GET("/supermarkets", d.catalog.ListSupermarkets)
		adminWrite.PUT("/supermarkets/:id", d.catalog.UpdateSupermarket)
		adminWrite.DELETE("/supermarkets/:id", d.catalog.DeleteSupermarket)

		adminWrite.POST("/units", d.catalog.CreateUnit)
		admin.GET("/units", d.catalog.ListUnits)
		adminWrite.PUT("/units/:id", d.catalog.UpdateUnit)
		adminWrite.DELETE("/units/:id", d.catalog.DeleteUnit)

		adminWrite.POST("/products", d.catalog.CreateProduct)
		admin.GET("/products", d.catalog.ListProducts)
		adminWrite.PUT("/products/:id", d.catalog.UpdateProduct)
		adminWrite.DELETE("/products/:id", d.catalog.DeleteProduct)

		adminWrite.POST("/product-units", d.catalog.CreateProductUnit)
		admin.GET("/product-units/:product_id", d.catalog.ListProductUnits)

		adminWrite.POST("/sellable-products", d.catalog.CreateSellableProduct)
		admin.GET("/sellable-products", d.catalog.ListSellableProducts)
		adminWrite.DELETE("/sellable-products/:id", d.catalog.DeleteSellableProduct)

		adminWrite.POST("/sellable-product-units", d.catalog.CreateSellableProductUnit)
		admin.GET("/sellable-product-units/:sellable_product_id", d.catalog.ListSellableProductUnits)
		adminWrite.DELETE("/sellable-product-units/:id", d.catalog.DeleteSellableProductUnit)

		adminWrite.POST("/brand-catalog", d.catalog.UpsertBrandCatalogEntry)
		admin.GET("/brand-catalog", d.catalog.ListBrandCatalog)
	}

	// Authenticated application endpoints
	app := api.Group("", middleware.RequireAuth(d.authService))
	{
		app.POST("/prices", middleware.Idempotency(d.cache), d.price.Create)
		app.GET("/prices", d.price.List)
		app.GET("/prices/latest/:product_id", d.price.Latest)

		app.POST("/shopping-lists", d.list.Create)
		app.GET("/shopping-lists", d.list.List)
		app.GET("/shopping-lists/:id", d.list.Get)
		app.PUT("/shopping-lists/:id", d.list.Update)
		app.DELETE("/shopping-lists/:id", d.list.Delete)
		app.POST("/shopping-lists/:id/submit-prices", d.list.SubmitPrices)

		app.POST("/posts", d.social.CreatePost)
		app.GET("/posts", d.social.ListPosts)
		app.POST("/posts/:id/react", d.social.React)
		app.POST("/posts/:id/comments", d.social.CreateComment)
		app.GET("/posts/:id/comments", d.social.ListComments)

		app.POST("/alerts", d.alert.Create)
		app.GET("/alerts", d.alert.List)
		app.DELETE("/alerts/:id", d.alert.Delete)

		app.GET("/notifications", d.alert.Notifications)
		app.GET("/notifications/unread-count", d.alert.UnreadCount)
		app.PUT("/notifications/:id/read", d.alert.MarkRead)
		app.PUT("/notifications/read-all", d.alert.MarkAllRead)

		app.GET("/analytics/product/:product_id", d.analytics.ProductAnalytics)
		app.GET("/analytics/compare/:product_id", d.analytics.Compare)
		app.GET("/analytics/stats", d.analytics.Stats)
		app.GET("/leaderboard", d.analytics.Leaderboard)
		app.GET("/my-points", d.analytics.MyPoints)

		app.GET("/search/products", d.catalog.SearchProducts)
	}
}

func logLevel(cfg *config.Config) string {
	if cfg.App.Debug {
		return "debug"
	}
	return "info"
}
