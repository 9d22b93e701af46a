// Command symbolsync downloads the Nasdaq symbol directory and stores it in
// the Redis cache used by the server at startup.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"enterprise_backend/internal/app/di"
	"enterprise_backend/internal/platform/config"
	"enterprise_backend/internal/platform/logger"
	infraredis "enterprise_backend/internal/platform/redis"
)

func main() {
	cfg := config.Load()
	closer, err := logger.Setup(true, "")
	if err != nil {
		slog.Error("failed to set up logger", "error", err)
		os.Exit(1)
	}

	err = run(cfg)
	if err != nil {
		slog.Error("symbol sync failed", "error", err)
	}
	closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis is required for symbol sync: %w", err)
	}
	defer rdb.Close()

	symbols, err := di.NewSymbolSource(rdb).Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh symbols: %w", err)
	}
	slog.Info("symbol sync ok", "count", len(symbols))
	return nil
}
