package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appapproval "github.com/AcmeAI-Git/water-tariff-backend/internal/application/approval"
	auditapp "github.com/AcmeAI-Git/water-tariff-backend/internal/application/audit"
	billingapp "github.com/AcmeAI-Git/water-tariff-backend/internal/application/billing"
	consumptionapp "github.com/AcmeAI-Git/water-tariff-backend/internal/application/consumption"
	appevent "github.com/AcmeAI-Git/water-tariff-backend/internal/application/event"
	tariffapp "github.com/AcmeAI-Git/water-tariff-backend/internal/application/tariff"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/cache"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/config"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/event"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/logger"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/persistence"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/telemetry"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/timeseries"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/interfaces/http/handler"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/interfaces/http/middleware"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Water Tariff Backend API
//	@version		1.0
//	@description	Slab tariff plans, meter consumption, approvals and bills
//	@BasePath		/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting water tariff backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry providers come first so the database plugin and HTTP
	// middleware pick them up
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
		ExportInterval:    cfg.Telemetry.ExportInterval,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.App.Env == "development",
		SlowQueryThresh: cfg.Database.SlowThreshold,
		DBName:          cfg.Database.DBName,
		TracerProvider:  tracerProvider.Provider(),
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if _, err := telemetry.RegisterPoolMetrics(meter, db.SQL()); err != nil {
		log.Warn("Failed to register connection pool metrics", zap.Error(err))
	}

	// Approval status catalog, cached in process and optionally in Redis
	statusCatalog := persistence.NewGormApprovalStatusRepository(db.DB)
	statuses, err := cache.NewStatusCacheFactory(cfg.Redis, cache.WithLogger(log)).CreateLookup(statusCatalog)
	if err != nil {
		log.Fatal("Failed to create approval status cache", zap.Error(err))
	}
	defer func() {
		_ = statuses.Close()
	}()
	if err := statuses.Warm(ctx); err != nil {
		log.Fatal("Approval status catalog is not seeded; run the migrations first", zap.Error(err))
	}

	// Repositories
	tariffPlanRepo := persistence.NewGormTariffPlanRepository(db.DB, statuses)
	consumptionRepo := persistence.NewGormConsumptionRepository(db.DB, statuses)
	approvalRequestRepo := persistence.NewGormApprovalRequestRepository(db.DB, statuses)
	billRepo := persistence.NewGormBillRepository(db.DB)
	auditLogRepo := persistence.NewGormAuditLogRepository(db.DB)

	// Event bus and subscribers
	var busOpts []event.BusOption
	if cfg.Event.Async {
		busOpts = append(busOpts, event.WithAsyncDispatch(cfg.Event.HandlerTimeout))
	}
	eventBus := event.NewInMemoryEventBus(log, busOpts...)
	eventBus.Subscribe(auditapp.NewAuditLogHandler(auditLogRepo, log))

	if cfg.Kafka.Enabled {
		producer, err := event.NewKafkaProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("Failed to create Kafka producer", zap.Error(err))
		}
		publisher := event.NewKafkaPublisher(producer, cfg.Kafka.Topic, log)
		defer func() {
			_ = publisher.Close()
		}()
		eventBus.Subscribe(publisher)
		log.Info("Kafka notifications enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	if cfg.InfluxDB.Enabled {
		influx, err := timeseries.NewInfluxClient(ctx, cfg.InfluxDB)
		if err != nil {
			log.Fatal("Failed to connect to InfluxDB", zap.Error(err))
		}
		defer influx.Close()
		recorder := timeseries.NewUsageRecorder(influx.WriteAPIBlocking(cfg.InfluxDB.Org, cfg.InfluxDB.Bucket), log)
		eventBus.Subscribe(recorder)
		log.Info("Consumption time series enabled", zap.String("bucket", cfg.InfluxDB.Bucket))
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	dispatcher := appevent.NewDispatcher(eventBus, log)

	// Application services
	billingMetrics, err := telemetry.NewBillingMetrics(meter, log)
	if err != nil {
		log.Fatal("Failed to create billing metrics", zap.Error(err))
	}

	tariffService := tariffapp.NewTariffService(tariffPlanRepo, log)
	tariffService.SetDispatcher(dispatcher)
	tariffService.SetMetrics(billingMetrics)
	tariffService.SetLocation(cfg.Billing.Location())

	consumptionService := consumptionapp.NewConsumptionService(consumptionRepo, log)
	consumptionService.SetDispatcher(dispatcher)
	consumptionService.SetMetrics(billingMetrics)

	billingService := billingapp.NewBillingService(billRepo, consumptionRepo, tariffService, log)
	billingService.SetDispatcher(dispatcher)
	billingService.SetMetrics(billingMetrics)

	approvalRequestService := appapproval.NewApprovalRequestService(approvalRequestRepo, log)
	approvalRequestService.SetDispatcher(dispatcher)
	approvalRequestService.SetMetrics(billingMetrics)

	auditLogService := auditapp.NewAuditLogService(auditLogRepo)

	// Handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	systemHandler.AddCheck("database", db.Ping)
	if statuses.UsesRedis() {
		systemHandler.AddCheck("redis", statuses.Ping)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order matters: the actor must be on the request context
	// before the tracing middleware derives the span logger from it.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	r.Use(
		middleware.Actor(cfg.Billing.SystemUser()),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			Enabled:        tracerProvider.IsEnabled(),
			TracerProvider: tracerProvider.Provider(),
		}),
		middleware.SpanEnricher(),
		httpMetrics,
	)

	router.RegisterAPI(r, router.APIHandlers{
		TariffPlans:      handler.NewTariffPlanHandler(tariffService),
		Consumptions:     handler.NewConsumptionHandler(consumptionService),
		Bills:            handler.NewBillHandler(billingService),
		ApprovalRequests: handler.NewApprovalRequestHandler(approvalRequestService),
		AuditLogs:        handler.NewAuditLogHandler(auditLogService),
		System:           systemHandler,
	})
	r.Setup()
	log.Info("Routes registered", zap.Int("count", len(r.Routes())))

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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain in time", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
