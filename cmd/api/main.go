package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/weatherapp/weather-go/internal/config"
	"github.com/weatherapp/weather-go/internal/crypto"
	"github.com/weatherapp/weather-go/internal/repository"
	"github.com/weatherapp/weather-go/internal/server"
	"github.com/weatherapp/weather-go/internal/service"
	"github.com/weatherapp/weather-go/internal/session"
	"github.com/weatherapp/weather-go/internal/weather"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	slog.SetDefault(cfg.Logger())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN, repository.PoolOptions{
		MaxOpen:     cfg.DBMaxOpen,
		MaxIdle:     cfg.DBMaxIdle,
		MaxLifetime: cfg.DBMaxConnAge,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}

	denylist, closeDenylist, err := newDenylist(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDenylist()

	authService, err := service.NewAuthService(
		repository.NewUserRepository(db),
		crypto.NewHasher(cfg.BcryptCost),
		crypto.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry),
		denylist,
	)
	if err != nil {
		return err
	}

	if cfg.Weather.APIKey == "" {
		slog.Warn("WEATHER_API_KEY is not set, weather routes will answer 503")
	}
	weatherClient := weather.NewClient(weather.Options{
		APIKey:  cfg.Weather.APIKey,
		BaseURL: cfg.Weather.BaseURL,
		GeoURL:  cfg.Weather.GeoURL,
		Units:   cfg.Weather.Units,
		Lang:    cfg.Weather.Lang,
		Timeout: cfg.Weather.Timeout,
		RPS:     cfg.Weather.RPS,
		Burst:   cfg.Weather.Burst,
	})

	router := server.NewRouter(server.Deps{
		Auth:        authService,
		Favorites:   service.NewFavoriteService(repository.NewFavoriteRepository(db)),
		Weather:     service.NewWeatherService(weatherClient),
		DB:          db,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

// newDenylist picks the shared Redis denylist when REDIS_ADDR is set and the
// in-process one otherwise.
func newDenylist(ctx context.Context, cfg config.Config) (session.Denylist, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("using in-memory token denylist")
		return session.NewMemoryDenylist(10 * time.Minute), func() {}, nil
	}

	rdb, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("using redis token denylist", "addr", cfg.RedisAddr)
	return session.NewRedisDenylist(rdb), func() { rdb.Close() }, nil
}
