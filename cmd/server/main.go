package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	accountingapp "github.com/ledgerdesk/backend/internal/application/accounting"
	importapp "github.com/ledgerdesk/backend/internal/application/import"
	invoicingapp "github.com/ledgerdesk/backend/internal/application/invoicing"
	"github.com/ledgerdesk/backend/internal/infrastructure/auth"
	"github.com/ledgerdesk/backend/internal/infrastructure/cache"
	"github.com/ledgerdesk/backend/internal/infrastructure/config"
	"github.com/ledgerdesk/backend/internal/infrastructure/event"
	"github.com/ledgerdesk/backend/internal/infrastructure/logger"
	"github.com/ledgerdesk/backend/internal/infrastructure/persistence"
	"github.com/ledgerdesk/backend/internal/infrastructure/scheduler"
	"github.com/ledgerdesk/backend/internal/infrastructure/storage"
	"github.com/ledgerdesk/backend/internal/infrastructure/telemetry"
	"github.com/ledgerdesk/backend/internal/interfaces/http/handler"
	"github.com/ledgerdesk/backend/internal/interfaces/http/middleware"
	"github.com/ledgerdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/ledgerdesk/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var version = "dev"

//	@title			Ledger API
//	@version		1.0
//	@description	Multi-tenant accounting core: invoices, chart of accounts, account imports and compliance periods.

//	@contact.name	API Support

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	ctx := context.Background()

	// Telemetry: logs, traces, metrics and profiles
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, logProvider.Core())
		}))
	}

	log.Info("Starting ledger service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.Telemetry.ServiceName, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	ledgerMetrics, err := telemetry.NewLedgerMetrics(meterProvider.Meter("ledgerdesk/ledger"))
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.DBName,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Receivables summary cache, Redis when configured
	summaryCache, err := cache.NewSummaryCacheFactory(cfg.Redis, cfg.Cache,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to create receivables cache", zap.Error(err))
	}

	// Object storage archive for import uploads
	var archive importapp.SourceArchive
	var s3Storage *storage.S3ObjectStorage
	if cfg.Storage.Enabled() {
		s3Storage, err = storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiry),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if cfg.Storage.CreateBucket {
			if err := s3Storage.EnsureBucket(ctx); err != nil {
				log.Fatal("Failed to create storage bucket", zap.Error(err))
			}
		}
		archive = s3Storage
	} else {
		log.Info("Object storage not configured, import uploads are not archived")
	}

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	groupRepo := persistence.NewGormGroupRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	importHistoryRepo := persistence.NewGormImportHistoryRepository(db.DB)

	// Event bus; invoice changes evict the tenant's cached summary
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(invoicingapp.NewReceivablesCacheInvalidator(summaryCache, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	invoiceService := invoicingapp.NewInvoiceService(invoiceRepo, eventBus,
		invoicingapp.WithSummaryCache(summaryCache, cfg.Cache.SummaryTTL),
		invoicingapp.WithMetrics(ledgerMetrics),
		invoicingapp.WithLogger(log),
	)
	groupService := accountingapp.NewGroupService(groupRepo, accountRepo, log)
	accountService := accountingapp.NewAccountService(accountRepo, groupRepo, log)

	importOpts, err := importapp.OptionsFromConfig(cfg.Import, cfg.Storage, cfg.HTTP.MaxBodySize)
	if err != nil {
		log.Fatal("Invalid import configuration", zap.Error(err))
	}
	importServiceOpts := []importapp.ServiceOption{
		importapp.WithMetrics(ledgerMetrics),
		importapp.WithLogger(log),
	}
	if archive != nil {
		importServiceOpts = append(importServiceOpts, importapp.WithArchive(archive))
	}
	importService := importapp.NewAccountImportService(groupRepo, accountRepo, importHistoryRepo, importOpts, importServiceOpts...)
	historyService := importapp.NewImportHistoryService(importHistoryRepo, archive, importOpts.DownloadURLExpiry, log)

	// Overdue sweeper
	var sweeper *scheduler.OverdueSweeper
	if cfg.Scheduler.OverdueSweepEnabled {
		sweeperCfg := scheduler.DefaultOverdueSweeperConfig()
		sweeperCfg.Interval = cfg.Scheduler.OverdueSweepInterval
		sweeperCfg.RunOnStart = cfg.Scheduler.OverdueSweepOnStart
		sweeper, err = scheduler.NewOverdueSweeper(sweeperCfg, invoiceRepo, invoiceService, log)
		if err != nil {
			log.Fatal("Failed to create overdue sweeper", zap.Error(err))
		}
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal("Failed to start overdue sweeper", zap.Error(err))
		}
		log.Info("Overdue sweeper started", zap.Duration("interval", sweeperCfg.Interval))
	}

	// Readiness checks
	checks := []handler.ReadinessCheck{
		{Name: "database", Check: func(context.Context) error { return db.Ping() }},
	}
	if pinger, ok := summaryCache.(interface{ Ping(context.Context) error }); ok {
		checks = append(checks, handler.ReadinessCheck{Name: "redis", Check: pinger.Ping})
	}
	if s3Storage != nil {
		checks = append(checks, handler.ReadinessCheck{Name: "object_storage", Check: s3Storage.Ping})
	}

	handlers := router.Handlers{
		Invoices:        handler.NewInvoiceHandler(invoiceService),
		ChartOfAccounts: handler.NewChartOfAccountsHandler(groupService, accountService),
		AccountImports:  handler.NewAccountImportHandler(importService, historyService, cfg.HTTP.MaxBodySize),
		Compliance:      handler.NewComplianceHandler(),
		System:          handler.NewSystemHandler(cfg.App.Name, version, checks...),
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order:
	// request id, panic recovery, request log, security headers, CORS,
	// body limit, then tracing and metrics
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure(cfg.App.IsProduction()))
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled()))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meterProvider.Meter("ledgerdesk/http"), log))

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// API middleware: authentication, tenant resolution, span attributes
	// and profile labels
	var apiMiddleware []gin.HandlerFunc
	if cfg.JWT.Enabled {
		jwtConfig := middleware.DefaultJWTConfig(auth.NewJWTService(cfg.JWT))
		jwtConfig.Logger = log
		apiMiddleware = append(apiMiddleware, middleware.JWTAuth(jwtConfig))
	} else {
		log.Warn("JWT authentication disabled, tenants are taken from the X-Tenant-ID header")
	}
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.HeaderEnabled = !cfg.JWT.Enabled
	tenantConfig.Logger = log
	apiMiddleware = append(apiMiddleware,
		middleware.Tenant(tenantConfig),
		middleware.SpanEnricher(),
		middleware.Profiling(profiler.IsEnabled()),
	)

	router.Mount(engine, handlers, apiMiddleware...)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sweeper != nil {
		if err := sweeper.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping overdue sweeper", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := summaryCache.Close(); err != nil {
		log.Error("Error closing receivables cache", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down log exporter", zap.Error(err))
	}
}
