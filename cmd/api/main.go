// @title          Recipe Auth API
// @version        1.0
// @description    Authentication and authorization core for the recipe rating backend.
// @BasePath       /
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
// @description    Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ratemyrecipe/recipe-auth/internal/api"
	"github.com/ratemyrecipe/recipe-auth/internal/api/handler"
	"github.com/ratemyrecipe/recipe-auth/internal/core/service"
	"github.com/ratemyrecipe/recipe-auth/internal/infrastructure/crypto"
	mongostore "github.com/ratemyrecipe/recipe-auth/internal/infrastructure/db/mongo"
	redisstore "github.com/ratemyrecipe/recipe-auth/internal/infrastructure/db/redis"
	"github.com/ratemyrecipe/recipe-auth/internal/infrastructure/queue"
	"github.com/ratemyrecipe/recipe-auth/internal/infrastructure/token"
	"github.com/ratemyrecipe/recipe-auth/internal/pkg/config"
	"github.com/ratemyrecipe/recipe-auth/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "recipe-auth",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongostore.Disconnect(dctx, mongoClient); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	userRepo := mongostore.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user indexes")
	}

	// --- Audit trail ---
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, mongostore.NewAuditRepository(db), logger.Component("audit_dispatcher"))
	dispatcher.Start(auditCtx)

	// --- Auth core ---
	codec, err := token.NewJWTCodec(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token codec")
	}
	hasher := crypto.NewBcryptHasher(cfg.Auth.BcryptCost)
	throttle := redisstore.NewLoginThrottle(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow)

	authService := service.NewAuthService(userRepo, hasher, codec, logger.Component("auth_service"), service.AuthOptions{
		AllowAdminSignup: cfg.Auth.SignupAllowAdmin,
		Throttle:         throttle,
		Audit:            dispatcher,
	})
	adminService := service.NewAdminService(userRepo, dispatcher, nil, logger.Component("admin_service"))
	gate := service.NewAccessGate(codec, service.NewIdentityResolver(userRepo), service.NewBlockEnforcer(nil), logger.Component("access_gate"))

	if cfg.Admin.Enabled() {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap admin account")
		}
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:  authService,
		Admin: adminService,
		Gate:  gate,
		Readiness: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		CORSOrigins:       cfg.HTTP.CORSAllowedOrigins,
		AuthRateLimit:     cfg.HTTP.AuthRateLimit,
		AuthRateBurst:     cfg.HTTP.AuthRateBurst,
		Log:               logger.Component("http"),
		MetricsRegisterer: prometheus.DefaultRegisterer,
		MetricsGatherer:   prometheus.DefaultGatherer,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting recipe-auth")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	stopAudit()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
}
