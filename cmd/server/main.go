package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fleetlog/fleetlog-api/internal/api"
	"github.com/fleetlog/fleetlog-api/internal/infrastructure/config"
	mongodb "github.com/fleetlog/fleetlog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/fleetlog/fleetlog-api/internal/infrastructure/db/redis"
	"github.com/fleetlog/fleetlog-api/internal/infrastructure/storage"
	"github.com/fleetlog/fleetlog-api/pkg/logger"
)

// @title        FleetLog API
// @version      1.0
// @description  Vehicle-condition logging for fleet drivers and administrators.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "fleetlog-api",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connect failed")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = redisClient.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	vehicleRepo := mongodb.NewVehicleRepository(db)
	entryRepo := mongodb.NewEntryRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := entryRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("entry indexes failed")
	}

	photoStore, err := storage.NewPhotoStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("photo store init failed")
	}

	e := api.NewRouter(api.RouterConfig{
		Mongo:      db,
		Redis:      redisClient,
		Users:      userRepo,
		Vehicles:   vehicleRepo,
		Entries:    entryRepo,
		Sessions:   redisdb.NewSessionStore(redisClient),
		PhotoStore: photoStore,
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
		Logger:     log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		return
	}
	log.Info().Msg("shutdown complete")
}
