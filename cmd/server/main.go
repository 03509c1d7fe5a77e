package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/posclient"
	"github.com/fekuna/omnipos-inventory-service/pkg/broker"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/metrics"
	"github.com/fekuna/omnipos-inventory-service/pkg/resilience"

	auditRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/audit/repository"
	auditUCPkg "github.com/fekuna/omnipos-inventory-service/internal/audit/usecase"

	settingsCachePkg "github.com/fekuna/omnipos-inventory-service/internal/settings/cache"
	settingsH "github.com/fekuna/omnipos-inventory-service/internal/settings/handler"
	settingsRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/settings/repository"
	settingsUCPkg "github.com/fekuna/omnipos-inventory-service/internal/settings/usecase"

	mappingRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/mapping/repository"
	mappingUCPkg "github.com/fekuna/omnipos-inventory-service/internal/mapping/usecase"

	prodRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/product/repository"

	invH "github.com/fekuna/omnipos-inventory-service/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/usecase"

	depletionH "github.com/fekuna/omnipos-inventory-service/internal/depletion/handler"
	depletionUCPkg "github.com/fekuna/omnipos-inventory-service/internal/depletion/usecase"

	saleRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/sale/repository"

	syncH "github.com/fekuna/omnipos-inventory-service/internal/possync/handler"
	syncRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/possync/repository"
	syncUCPkg "github.com/fekuna/omnipos-inventory-service/internal/possync/usecase"

	webhookH "github.com/fekuna/omnipos-inventory-service/internal/webhook/handler"
	webhookListenerPkg "github.com/fekuna/omnipos-inventory-service/internal/webhook/listener"
	webhookUCPkg "github.com/fekuna/omnipos-inventory-service/internal/webhook/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const serviceName = "omnipos-inventory-service"

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	appMetrics := metrics.New(cfg.Metrics.Namespace)

	// 5. Initialize Repositories
	auditRepo := auditRepoPkg.NewPGRepository(db)
	settingsRepo := settingsRepoPkg.NewPGRepository(db)
	mappingRepo := mappingRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	saleRepo := saleRepoPkg.NewPGRepository(db)
	syncRepo := syncRepoPkg.NewPGRepository(db)

	// 6. Initialize UseCases
	settingsUC := settingsUCPkg.NewSettingsUseCase(settingsRepo, settingsCachePkg.New(cfg.Settings.CacheTTL), appLogger)
	auditUC := auditUCPkg.NewAuditUseCase(auditRepo, settingsUC, appLogger)
	mappingUC := mappingUCPkg.NewMappingUseCase(mappingRepo, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, redisClient, auditUC, appLogger)
	depletionUC := depletionUCPkg.NewDepletionUseCase(mappingUC, prodRepo, invRepo, settingsUC, auditUC, appMetrics, appLogger)
	webhookUC := webhookUCPkg.NewWebhookUseCase(syncRepo, depletionUC, appMetrics, appLogger)

	breakerCfg := resilience.DefaultCircuitBreakerConfig("pos-api")
	breakerCfg.FailureThreshold = cfg.POS.FailureThreshold
	breakerCfg.Timeout = cfg.POS.OpenTimeout
	posClient := posclient.NewHTTPClient(posclient.Config{
		BaseURL: cfg.POS.BaseURL,
		Timeout: cfg.POS.Timeout,
	}, resilience.NewCircuitBreaker(breakerCfg, appLogger), appLogger)

	syncUC := syncUCPkg.NewSyncUseCase(
		syncRepo, saleRepo, posClient, mappingUC, depletionUC, redisClient,
		syncUCPkg.Config{
			Lookback:            cfg.Sync.FallbackLookback,
			DefaultCloseoutHour: cfg.Sync.DefaultCloseoutHour,
			LockTTL:             cfg.Sync.LockTTL,
		},
		appMetrics, appLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7. Kafka sale listener
	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		saleListener := webhookListenerPkg.NewSaleListener(kafkaConsumer, webhookUC, appLogger)
		go saleListener.Start(ctx)
	}

	// 8. HTTP Router
	if cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		appLogger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	})
	router.Use(auth.OrganizationMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(appMetrics.Handler()))

	api := router.Group("")
	webhookH.NewWebhookHandler(webhookUC, appLogger).Register(api)
	syncH.NewSyncHandler(syncUC, auditUC, cfg.Sync.CronSecret, appLogger).Register(api)
	settingsH.NewSettingsHandler(settingsUC, appLogger).Register(api)
	invH.NewInventoryHandler(invUC, appLogger).Register(api)
	depletionH.NewDepletionHandler(depletionUC, appLogger).Register(api)

	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 9. gRPC health server
	port := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC health server", zap.String("port", port))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
