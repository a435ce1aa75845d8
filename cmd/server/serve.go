package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/config"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/handlers"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/matching"
	appMiddleware "github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/middleware"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting networking API server",
		zap.String("env", cfg.Env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("db_name", cfg.Database.Name),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	backend, err := services.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Database.Driver, err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Close(ctx); err != nil {
			log.Error("Error closing backend", zap.Error(err))
		}
	}()

	engine := matching.NewEngine(matching.Weights{
		SharedInterest:  cfg.Matching.Weights.SharedInterest,
		SharedSkill:     cfg.Matching.Weights.SharedSkill,
		ComplementSkill: cfg.Matching.Weights.ComplementSkill,
	})
	matcher := services.NewMatchService(backend.Profiles, engine, cfg.Matching.DefaultLimit)

	var rateStore appMiddleware.RateStore
	if cfg.RateLimit.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
		})
		defer rdb.Close()

		// The limiter fails open, so an unreachable Redis only warrants a warning.
		pingCtx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis not reachable, match requests will not be throttled until it is",
				zap.String("addr", cfg.RateLimit.RedisAddr), zap.Error(err))
		}
		cancel()

		rateStore = appMiddleware.NewRedisRateStore(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window(), cfg.RateLimit.Block())
	}

	r := handlers.NewRouter(handlers.RouterConfig{
		Logger:         log,
		Backend:        backend,
		Matcher:        matcher,
		RateStore:      rateStore,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout(),
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	return serve(srv, cfg.HTTP, log)
}

// serve runs srv until SIGINT or SIGTERM, then drains in-flight requests.
func serve(srv *http.Server, cfg config.HTTPConfig, log *zap.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-quit:
		log.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
	return nil
}
