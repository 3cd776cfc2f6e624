package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"doc-check.backend/internal/config"
	"doc-check.backend/internal/infrastructure/gateway"
	"doc-check.backend/internal/infrastructure/jobs"
	"doc-check.backend/internal/infrastructure/queue"
	"doc-check.backend/internal/infrastructure/ratelimit"
	"doc-check.backend/internal/infrastructure/repositories"
	"doc-check.backend/internal/interfaces/http/handlers"
	"doc-check.backend/internal/interfaces/http/middleware"
	"doc-check.backend/internal/usecases"
	"doc-check.backend/pkg/jwt"
	"doc-check.backend/pkg/logger"
	"doc-check.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not available, endpoints will return errors", zap.Error(err))
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Collaborators
	jobQueue := queue.NewRedisJobQueue(redis.GetClient(), cfg.Queue.Stream, cfg.Queue.DispatchTimeout)
	asaasGateway := gateway.NewAsaasClient(cfg.Asaas.APIURL, cfg.Asaas.APIKey, cfg.Asaas.Timeout)
	limiter := ratelimit.NewLimiter(redis.GetClient(), limiterRules(cfg))

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	purchaseUsecase := usecases.NewPurchaseUsecase(purchaseRepo)
	webhookUsecase := usecases.NewWebhookUsecase(purchaseRepo, userRepo, jobQueue, uow)
	adminUsecase := usecases.NewAdminUsecase(purchaseRepo, userRepo, jobQueue, asaasGateway, uow, cfg.Asaas.Timeout)

	// Handlers
	deps := routeDeps{
		authHandler:     handlers.NewAuthHandler(authUsecase),
		purchaseHandler: handlers.NewPurchaseHandler(purchaseUsecase),
		webhookHandler:  handlers.NewWebhookHandler(webhookUsecase),
		adminHandler:    handlers.NewAdminHandler(adminUsecase),
		authMiddleware:  middleware.AuthMiddleware(jwtService),
		webhookToken:    cfg.Asaas.WebhookToken,
		limiter:         limiter,
	}

	// Background sweeper for abandoned checkouts
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	expiryJob := jobs.NewPurchaseExpiryJob(purchaseRepo, cfg.Expiry.Interval, cfg.Expiry.PendingTTL)
	go expiryJob.Start(jobCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	registerAPIV1Routes(r, deps)

	logger.Info(context.Background(), "Server starting", zap.String("port", cfg.Server.Port))
	return runServer(r, cfg.Server.Port)
}

func limiterRules(cfg *config.Config) map[string]ratelimit.Rule {
	rules := make(map[string]ratelimit.Rule, len(cfg.RateLimit.Rules))
	for action, rule := range cfg.RateLimit.Rules {
		rules[action] = ratelimit.Rule{MaxRequests: rule.MaxRequests, Window: rule.Window}
	}
	return rules
}
