// @title                       SkillSync Marketplace API
// @version                     1.0
// @description                 Role-based marketplace connecting clients and contractors.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/skillsync/marketplace-api/internal/api"
	"github.com/skillsync/marketplace-api/internal/api/handler"
	"github.com/skillsync/marketplace-api/internal/core/service"
	"github.com/skillsync/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/skillsync/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/skillsync/marketplace-api/internal/infrastructure/db/redis"
	httpserver "github.com/skillsync/marketplace-api/internal/infrastructure/http"
	"github.com/skillsync/marketplace-api/internal/infrastructure/queue"
	"github.com/skillsync/marketplace-api/pkg/logger"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "marketplace-api"})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongodb.Disconnect(mongoClient, cfg.ShutdownTimeout); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	accounts := mongodb.NewAccountRepository(db)
	projects := mongodb.NewProjectRepository(db)
	proposals := mongodb.NewProposalRepository(db)
	messages := mongodb.NewMessageRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	if err := mongodb.EnsureIndexes(ctx, accounts, projects, proposals, messages, auditRepo); err != nil {
		return err
	}

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(auditRepo, logger.Component("audit")), logger.Component("audit"))
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	// --- Auth core ---
	tokens, err := service.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm, cfg.Auth.TokenTTL())
	if err != nil {
		return err
	}
	authService := service.NewAuthService(
		accounts,
		service.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		logger.Component("auth"),
		service.WithLoginThrottle(redisdb.NewLoginThrottle(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow)),
		service.WithAuditSink(dispatcher),
		service.WithAdminRegistration(cfg.Auth.AllowAdminRegistration),
	)

	// --- Marketplace ---
	marketLog := logger.Component("marketplace")

	router := api.NewRouter(api.Dependencies{
		Logger:      logger.Component("http"),
		Resolver:    service.NewIdentityResolver(tokens),
		Audit:       dispatcher,
		Auth:        authService,
		Projects:    service.NewProjectService(projects, proposals, marketLog),
		Proposals:   service.NewProposalService(proposals, projects, accounts, marketLog),
		Contractors: service.NewContractorService(accounts, projects, proposals, marketLog),
		Messages:    service.NewMessageService(messages, accounts, marketLog),
		Admin:       service.NewAdminService(accounts, projects, proposals, marketLog),
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		CORSOrigins:   cfg.CORSOrigins,
		AuthRateLimit: cfg.Auth.RateLimitPerMinute,
	})

	return httpserver.NewServer(router, cfg.Port, log).Run(ctx, cfg.ShutdownTimeout)
}
