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
	"go.uber.org/zap/zapcore"

	callcenterapp "github.com/callcrm/backend/internal/application/callcenter"
	identityapp "github.com/callcrm/backend/internal/application/identity"
	navigationapp "github.com/callcrm/backend/internal/application/navigation"
	"github.com/callcrm/backend/internal/infrastructure/auth"
	"github.com/callcrm/backend/internal/infrastructure/cache"
	"github.com/callcrm/backend/internal/infrastructure/config"
	"github.com/callcrm/backend/internal/infrastructure/logger"
	"github.com/callcrm/backend/internal/infrastructure/notify"
	"github.com/callcrm/backend/internal/infrastructure/persistence"
	"github.com/callcrm/backend/internal/infrastructure/telemetry"
	"github.com/callcrm/backend/internal/interfaces/http/handler"
	"github.com/callcrm/backend/internal/interfaces/http/middleware"
	"github.com/callcrm/backend/internal/interfaces/http/router"
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

	log.Info("Starting CallCRM Backend",
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

	// Telemetry providers (optional)
	ctx := context.Background()
	var meterProvider *telemetry.MeterProvider
	var tracerProvider *telemetry.TracerProvider
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled {
		tracerProvider, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize tracer provider", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
					log.Error("Error shutting down tracer provider", zap.Error(err))
				}
			}()
		}

		meterProvider, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize meter provider", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := meterProvider.Shutdown(shutdownCtx); err != nil {
					log.Error("Error shutting down meter provider", zap.Error(err))
				}
			}()

			businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
				Meter:        meterProvider.Meter("callcrm.business"),
				Logger:       log,
				LeadProvider: telemetry.NewGormLeadMetricsProvider(db.DB),
			})
			if err != nil {
				log.Warn("Failed to initialize business metrics", zap.Error(err))
			}
		}

		// OTLP log export: tee zap output into the collector alongside stdout
		if cfg.Telemetry.LogsEnabled {
			loggerProvider, lpErr := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
				Enabled:           true,
				CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
				ServiceName:       cfg.Telemetry.ServiceName,
				Insecure:          cfg.Telemetry.Insecure,
			}, log)
			if lpErr != nil {
				log.Warn("Failed to initialize log exporter", zap.Error(lpErr))
			} else {
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
						log.Error("Error shutting down log exporter", zap.Error(err))
					}
				}()

				otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
					ServiceName:    cfg.Telemetry.ServiceName,
					LoggerProvider: loggerProvider,
					Level:          zapcore.InfoLevel,
				})
				log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
					return zapcore.NewTee(core, otelCore)
				}))
				log.Info("Log export to OTEL collector enabled")
			}
		}
	}

	// Database observability: otelgorm spans plus query and pool metrics
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	if cfg.Telemetry.DBMetricsEnabled && meterProvider != nil {
		dbMetricsCfg := telemetry.DefaultDBMetricsConfig()
		dbMetricsCfg.SlowQueryThreshold = cfg.Telemetry.DBSlowQueryThresh
		dbMetrics, dmErr := telemetry.RegisterDBMetrics(db.DB, meterProvider, dbMetricsCfg, log)
		if dmErr != nil {
			log.Warn("Failed to register database metrics", zap.Error(dmErr))
		} else if dbMetrics != nil {
			dbMetrics.StartPoolStatsCollection(ctx)
			defer dbMetrics.Stop()
		}
	}

	// Continuous profiling. Span profiles link traces to flame graphs and
	// need both the profiler and the tracer provider running.
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Telemetry.ProfilingEnabled,
		ServerAddress:       cfg.Telemetry.ProfilingServerAddress,
		ApplicationName:     cfg.Telemetry.ServiceName,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
	}, log)
	if err != nil {
		log.Warn("Failed to start continuous profiling", zap.Error(err))
	} else {
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}()
		if profiler.IsEnabled() && tracerProvider != nil {
			if err := tracerProvider.EnableSpanProfiles(); err != nil {
				log.Warn("Failed to enable span profiles", zap.Error(err))
			}
		}
	}

	// Initialize repositories
	adminRepo := persistence.NewGormPlatformAdminRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	menuRepo := persistence.NewGormMenuRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	agentRepo := persistence.NewGormAgentRepository(db.DB)
	callRepo := persistence.NewGormCallRepository(db.DB)
	reportRepo := persistence.NewGormCallReportRepository(db.DB)

	// JWT service and token blacklist. Redis keeps revocations shared
	// across instances; a single-node deploy falls back to memory.
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis blacklist unavailable, using in-memory fallback", zap.Error(err))
			blacklist = auth.NewInMemoryTokenBlacklist()
		} else {
			blacklist = redisBlacklist
		}
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	defer func() {
		if err := blacklist.Close(); err != nil {
			log.Error("Error closing token blacklist", zap.Error(err))
		}
	}()

	// Permission cache follows the same Redis-with-fallback pattern
	permCacheFactory := cache.NewPermissionCacheFactory(cfg.Redis,
		cache.WithLogger(log), cache.WithInMemoryFallback(true))
	permCache, err := permCacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create permission cache", zap.Error(err))
	}

	// Realtime notification hub
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	hub := notify.NewHub(cfg.Notify, log)
	go hub.Run(hubCtx)

	// Initialize application services
	authConfig := identityapp.DefaultAuthServiceConfig()
	if cfg.Lockout.MaxFailedAttempts > 0 {
		authConfig.MaxLoginAttempts = cfg.Lockout.MaxFailedAttempts
	}
	if cfg.Lockout.LockDuration > 0 {
		authConfig.LockDuration = cfg.Lockout.LockDuration
	}

	authService := identityapp.NewAuthService(
		adminRepo, companyRepo, employeeRepo, roleRepo, menuRepo,
		jwtService, blacklist, permCache, authConfig, log)
	companyService := identityapp.NewCompanyService(companyRepo, log)
	employeeService := identityapp.NewEmployeeService(
		employeeRepo, companyRepo, roleRepo, blacklist, jwtService, log)
	roleService := identityapp.NewRoleService(roleRepo, employeeRepo, permCache, log)
	menuService := navigationapp.NewMenuService(menuRepo, log)

	var leadMetrics callcenterapp.LeadMetricsRecorder
	var callMetrics callcenterapp.CallMetricsRecorder
	if businessMetrics != nil {
		leadMetrics = businessMetrics
		callMetrics = businessMetrics
	}
	campaignService := callcenterapp.NewCampaignService(
		campaignRepo, leadRepo, companyRepo, hub, log)
	leadService := callcenterapp.NewLeadService(
		leadRepo, campaignRepo, agentRepo, hub, leadMetrics, log)
	agentService := callcenterapp.NewAgentService(
		agentRepo, callRepo, companyRepo, log)
	callService := callcenterapp.NewCallService(
		callRepo, agentRepo, leadRepo, hub, callMetrics, log)
	reportService := callcenterapp.NewReportService(
		reportRepo, campaignRepo, leadRepo, callRepo, log)

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

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled && meterProvider != nil {
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	if cfg.Telemetry.ProfilingEnabled {
		engine.Use(middleware.Profiling())
	}

	// Health check endpoint (outside API versioning)
	systemHandler := handler.NewSystemHandler(db)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:      jwtService,
		Blacklist:       blacklist,
		SkipPaths:       router.PublicPaths(),
		QueryTokenPaths: router.QueryTokenPaths(),
		Logger:          log,
	}))

	if cfg.Telemetry.Enabled {
		// Runs after JWT so spans on authenticated routes carry tenant
		// and subject attributes.
		r.Use(middleware.TracingAttributeInjector())
	}

	// Login and refresh get a much stricter limiter than general traffic
	var authLimiter gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.AuthRateLimit(
			middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow))
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}

	router.RegisterAll(r, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Company:  handler.NewCompanyHandler(companyService),
		Employee: handler.NewEmployeeHandler(employeeService),
		Role:     handler.NewRoleHandler(roleService, employeeService),
		Menu:     handler.NewMenuHandler(menuService),
		Campaign: handler.NewCampaignHandler(campaignService),
		Lead:     handler.NewLeadHandler(leadService, callService),
		Agent:    handler.NewAgentHandler(agentService, leadService),
		Call:     handler.NewCallHandler(callService),
		Report:   handler.NewReportHandler(reportService),
		System:   systemHandler,
		Notify:   handler.NewNotifyHandler(hub),

		AuthLimiter: authLimiter,
	})
	r.Setup()

	// Simple ping at root API level for basic health checks
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Stop the hub after the HTTP server has drained
	hubCancel()
	select {
	case <-hub.Done():
	case <-shutdownCtx.Done():
		log.Warn("Notification hub did not drain in time")
	}

	log.Info("Server exited gracefully")
}
