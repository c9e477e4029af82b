package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	chatapp "github.com/spendlens/backend/internal/application/chat"
	reportapp "github.com/spendlens/backend/internal/application/report"
	chatinfra "github.com/spendlens/backend/internal/infrastructure/chat"
	"github.com/spendlens/backend/internal/infrastructure/config"
	"github.com/spendlens/backend/internal/infrastructure/logger"
	"github.com/spendlens/backend/internal/infrastructure/persistence"
	"github.com/spendlens/backend/internal/infrastructure/telemetry"
	"github.com/spendlens/backend/internal/interfaces/http/handler"
	"github.com/spendlens/backend/internal/interfaces/http/middleware"
	"github.com/spendlens/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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
		_ = log.Sync()
	}()

	log.Info("Starting spend analytics API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log,
		logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowQueryThresh),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.SlowQueryThresh = cfg.Database.SlowQueryThresh
	if cfg.Database.Driver == config.DriverSQLite {
		dbTracing.DBSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if mp.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to access connection pool", zap.Error(err))
		}
		poolMetrics, err := telemetry.RegisterDBPoolMetrics(mp.Meter(telemetry.DBMeterName), sqlDB)
		if err != nil {
			log.Fatal("Failed to register connection pool metrics", zap.Error(err))
		}
		defer func() { _ = poolMetrics.Unregister() }()
	}

	reportService := reportapp.NewSpendReportService(
		persistence.NewGormSpendReportRepository(db.DB),
		persistence.NewGormInvoiceQueryRepository(db.DB),
		reportapp.WithLocation(cfg.Report.Location()),
	)
	chatClient := chatinfra.NewClient(&cfg.Chat, log, chatinfra.WithMeter(mp.Meter(telemetry.ChatMeterName)))
	chatService := chatapp.NewService(chatClient, log)
	log.Info("Chat proxy configured", zap.String("endpoint", chatClient.Endpoint()))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	// Middleware order:
	// 1. RequestID - generate/propagate request ID
	// 2. Recovery - catch panics
	// 3. Logger - log requests
	// 4. Tracing - one span per request, tagged with the request ID
	// 5. Metrics - request count, latency and size per route
	// 6. Security headers, CORS, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
		SkipPaths:   []string{"/health", "/ready"},
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		Meter:     mp.Meter(telemetry.HTTPMeterName),
		Enabled:   mp.IsEnabled(),
		SkipPaths: []string{"/health", "/ready"},
		Logger:    log,
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))

	var chatMiddleware []gin.HandlerFunc
	if cfg.HTTP.ChatRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.ChatRateLimit, cfg.HTTP.ChatRateBurst)
		go limiter.Run(ctx, time.Minute)
		chatMiddleware = append(chatMiddleware, middleware.RateLimit(limiter))
		log.Info("Chat rate limiting enabled",
			zap.Float64("per_second", cfg.HTTP.ChatRateLimit),
			zap.Int("burst", cfg.HTTP.ChatRateBurst),
		)
	}

	router.RegisterSpendRoutes(engine, router.Handlers{
		Reports:        handler.NewReportHandler(reportService),
		Chat:           handler.NewChatHandler(chatService),
		Health:         handler.NewHealthHandler(db),
		ChatMiddleware: chatMiddleware,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

