// @title                       Task Tracker API
// @version                     1.0
// @description                 Multi-user task tracking with token authentication and role-based access.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskmanager/task-tracker/internal/api"
	"github.com/taskmanager/task-tracker/internal/core/security"
	"github.com/taskmanager/task-tracker/internal/core/service"
	"github.com/taskmanager/task-tracker/internal/infrastructure/config"
	mongodb "github.com/taskmanager/task-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/taskmanager/task-tracker/internal/infrastructure/db/redis"
	"github.com/taskmanager/task-tracker/internal/infrastructure/http/handlers"
	"github.com/taskmanager/task-tracker/internal/infrastructure/queue"
	"github.com/taskmanager/task-tracker/pkg/logger"
)

const (
	serviceName     = "task-tracker"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is configured from cfg, so fall back to a bare one.
		bootLog := logger.Init(logger.Options{Level: "info"})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logOptions(cfg))

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		if err := mongodb.Disconnect(mongoClient, shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)
	idempotency := redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)

	// --- Security ---
	tokens, err := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}
	hasher := security.NewBcryptHasher(0)
	resolver := security.NewPrincipalResolver(userRepo)

	if cfg.Auth.SeedDefaultUsers {
		if err := service.NewSeeder(userRepo, hasher, logger.For("seed")).Seed(ctx, service.DefaultAccounts); err != nil {
			log.Fatal().Err(err).Msg("seed default users")
		}
	}

	// --- Activity trail ---
	// The dispatcher outlives ctx so Stop can drain pending activities after a signal.
	dispatcher := queue.NewDispatcher(
		cfg.Activity.Workers,
		cfg.Activity.BufferSize,
		service.NewActivityService(activityRepo, logger.For("activity")),
		logger.For("dispatcher"),
	)
	dispatcher.Start(context.Background())

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Log:         log,
		AuthService: service.NewAuthService(userRepo, hasher, tokens, nil, logger.For("auth")),
		TaskService: service.NewTaskService(taskRepo, idempotency, dispatcher, nil, logger.For("tasks")),
		UserService: service.NewUserService(userRepo, taskRepo),
		Tokens:      tokens,
		Resolver:    resolver,
		HealthChecks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		EnableMetrics: true,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	dispatcher.Stop()
	log.Info().Msg("stopped")
}

func logOptions(cfg *config.Config) logger.Options {
	return logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	}
}
