package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/safar/storefront/internal/api"
	"github.com/safar/storefront/internal/config"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/events"
	"golang.org/x/time/rate"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()
	logger.Info().Msg("connected to database")

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
	}

	publisher := events.NewPublisher(&cfg.Kafka)
	defer publisher.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(50),
			Burst:     100,
			ExpiresIn: 3 * time.Minute,
		})))

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	handler := api.NewHandler(db, cfg, rdb, publisher)
	handler.Register(e)

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			logger.Info().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
