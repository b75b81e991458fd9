package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appdashboard "github.com/cms/dashboard/internal/application/dashboard"
	appidentity "github.com/cms/dashboard/internal/application/identity"
	domaindashboard "github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/infrastructure/auth"
	"github.com/cms/dashboard/internal/infrastructure/cache"
	"github.com/cms/dashboard/internal/infrastructure/config"
	"github.com/cms/dashboard/internal/infrastructure/logger"
	"github.com/cms/dashboard/internal/infrastructure/persistence"
	"github.com/cms/dashboard/internal/infrastructure/telemetry"
	"github.com/cms/dashboard/internal/infrastructure/weather"
	"github.com/cms/dashboard/internal/interfaces/http/handler"
	"github.com/cms/dashboard/internal/interfaces/http/middleware"
	"github.com/cms/dashboard/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting dashboard service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracing (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.DB.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.Database.DBName))); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Redis backs token revocation and the forecast cache. The service
	// degrades to in-process fallbacks when Redis is unavailable, which
	// is fine for single-instance deployments.
	var (
		redisClient   *redis.Client
		blacklist     auth.TokenBlacklist
		forecastCache cache.ForecastCache
	)
	redisClient, err = cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-process token blacklist and forecast cache", zap.Error(err))
		redisClient = nil
		blacklist = auth.NewMemoryTokenBlacklist()
		forecastCache = cache.NewMemoryForecastCache()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		forecastCache = cache.NewRedisForecastCache(redisClient, log)
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.RedisAddr()))
	}

	// Initialize repositories
	panelRepo := persistence.NewGormPanelRepository(db.DB)
	itemRepo := persistence.NewGormPanelItemRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)

	// Administration sections are registered here during wiring; model
	// browser and activity panels enumerate whatever this deployment
	// exposes.
	directory := domaindashboard.NewModelAdminDirectory()

	// Register the built-in panel variants
	registry := domaindashboard.NewRegistry()
	if err := appdashboard.RegisterBuiltinVariants(registry, directory); err != nil {
		log.Fatal("Failed to register panel variants", zap.Error(err))
	}

	// Weather upstream with cached forecasts
	weatherClient := weather.NewClient(cfg.Dashboard, log)
	weatherFetcher := weather.NewCachingFetcher(weatherClient, forecastCache, cfg.Dashboard.WeatherCacheTTL, log)

	// Content providers, one per built-in variant
	providers := appdashboard.NewProviderSet(
		appdashboard.NewModelAdminProvider(directory),
		appdashboard.NewWeatherProvider(weatherFetcher, log),
		appdashboard.NewTodoProvider(itemRepo),
		appdashboard.NewActivityProvider(directory, log),
	)

	// Initialize application services
	perms := appidentity.NewMemberPermissionChecker(memberRepo)
	panelService := appdashboard.NewPanelService(panelRepo, registry, providers, perms, cfg.Dashboard.ExcludedVariants, log)
	itemService := appdashboard.NewItemService(panelRepo, itemRepo, registry, perms, log)
	layoutService := appdashboard.NewLayoutService(panelRepo, itemRepo, memberRepo, perms, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := appidentity.NewAuthService(memberRepo, jwtService, blacklist, layoutService, log)

	// Initialize HTTP handlers
	authMW := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})
	authHandler := handler.NewAuthHandler(authService, authMW)
	dashboardHandler := handler.NewDashboardHandler(panelService, itemService, layoutService, authMW)
	systemHandler := handler.NewSystemHandler(db, redisClient, cfg.App.Name, cfg.App.Env)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

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
	// 7. Tracing - Span per request (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(authHandler).
		Register(dashboardHandler)
	r.Setup()

	// Start HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatal("HTTP server failed", zap.Error(err))
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
