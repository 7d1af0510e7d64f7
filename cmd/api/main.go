// Command api serves the user directory HTTP API.
//
// @title        User Directory API
// @version      1.0.0
// @description  Users and roles over MongoDB with soft delete, uniqueness among live records and role reference checks.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/api"
	"github.com/99minutos/user-directory/internal/api/handler"
	"github.com/99minutos/user-directory/internal/api/middleware"
	"github.com/99minutos/user-directory/internal/core/service"
	mongodb "github.com/99minutos/user-directory/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/user-directory/internal/infrastructure/db/redis"
	"github.com/99minutos/user-directory/internal/infrastructure/queue"
	"github.com/99minutos/user-directory/internal/pkg/config"
	"github.com/99minutos/user-directory/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "user-directory",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB (required) ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb unavailable")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("could not create indexes")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	// --- Redis (optional) ---
	var activateLimiter middleware.Limiter
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	switch {
	case errors.Is(err, redisdb.ErrDisabled):
		log.Info().Msg("redis not configured, activation rate limit disabled")
	case err != nil:
		log.Warn().Err(err).Msg("redis unavailable, activation rate limit disabled")
	default:
		defer rdb.Close()
		activateLimiter = redisdb.NewAttemptLimiter(rdb, "activate", cfg.Activate.MaxAttempts, cfg.Activate.Window)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongodb.NewAuditRepository(db), logger.Component("audit"))
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	dispatcher.Start(auditCtx)

	// --- Core ---
	roles := service.NewRoleService(mongodb.NewRoleRepository(db), dispatcher, logger.Component("roles"))
	users := service.NewUserService(mongodb.NewUserRepository(db), roles, dispatcher, logger.Component("users"))

	e := api.NewRouter(api.Dependencies{
		Roles:           roles,
		Users:           users,
		Mongo:           handler.MongoPinger(db),
		Redis:           handler.RedisPinger(rdb),
		ActivateLimiter: activateLimiter,
		Logger:          logger.Component("http"),
		ExposeErrors:    !cfg.IsProduction(),
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdown(e, log)

	// Queued audit events are persisted before the deferred Mongo disconnect.
	stopAudit()
	dispatcher.Wait()
	log.Info().Msg("audit queue drained")
}

func shutdown(e *echo.Echo, log zerolog.Logger) {
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
