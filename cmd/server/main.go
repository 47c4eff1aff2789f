package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	_ "github.com/bookwyrm/bookshelf-system/docs"
	"github.com/bookwyrm/bookshelf-system/internal/api"
	"github.com/bookwyrm/bookshelf-system/internal/infrastructure/db/mongodb"
	redisdb "github.com/bookwyrm/bookshelf-system/internal/infrastructure/db/redis"
	"github.com/bookwyrm/bookshelf-system/internal/infrastructure/queue"
	miniostore "github.com/bookwyrm/bookshelf-system/internal/infrastructure/storage/minio"
	"github.com/bookwyrm/bookshelf-system/internal/pkg/config"
	"github.com/bookwyrm/bookshelf-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure mongodb indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Media store ---
	minioClient, err := minio.New(cfg.Media.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Media.AccessKey, cfg.Media.SecretKey, ""),
		Secure: cfg.Media.UseSSL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create media client")
	}

	publicURL := cfg.Media.PublicBaseURL
	if publicURL == "" {
		scheme := "http"
		if cfg.Media.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Media.Endpoint
	}

	media, err := miniostore.NewMediaStore(ctx, minioClient, cfg.Media.Bucket, publicURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise media store")
	}

	// --- Background cleanup workers ---
	cleaner := queue.NewDispatcher(0, media, log)
	cleaner.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, media, cleaner, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
