package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tripline/travel-booking/internal/api"
	"github.com/tripline/travel-booking/internal/core/service"
	mongodb "github.com/tripline/travel-booking/internal/infrastructure/db/mongo"
	redisdb "github.com/tripline/travel-booking/internal/infrastructure/db/redis"
	"github.com/tripline/travel-booking/internal/infrastructure/queue"
	"github.com/tripline/travel-booking/internal/pkg/config"
	"github.com/tripline/travel-booking/pkg/logger"
)

const (
	tokenTTL        = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

// @title Travel Booking API
// @version 1.0
// @description Booking and resource-inventory core for the travel platform.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	// Repositories.
	userRepo := mongodb.NewUserRepository(db)
	resourceRepo := mongodb.NewResourceRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := resourceRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("resource index creation failed")
	}
	if err := bookingRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("booking index creation failed")
	}

	// Audit pipeline: events are processed asynchronously by sharded workers.
	dedup := redisdb.NewDedupChecker(redisClient)
	auditService := service.NewAuditService(auditRepo, dedup, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	// Core services.
	ledger := service.NewInventoryService(resourceRepo, log)
	bookingService := service.NewBookingService(bookingRepo, resourceRepo, ledger, dispatcher, log)
	catalogService := service.NewCatalogService(resourceRepo, ledger, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, tokenTTL)
	roleService := service.NewRoleService(userRepo, resourceRepo, bookingRepo, log)

	e := api.NewRouter(api.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		Bookings:  bookingService,
		Catalog:   catalogService,
		Auth:      authService,
		Roles:     roleService,
		Mongo:     db,
		Redis:     redisClient,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
