package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"feedgraph/internal/cache"
	"feedgraph/internal/config"
	"feedgraph/internal/database"
	"feedgraph/internal/middleware"
	"feedgraph/internal/models"
	"feedgraph/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedPreset names a built-in seed preset applied to an empty database.
	SeedPreset string
}

// InitRuntime connects to DB and Redis and optionally seeds an empty database.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; a nil client disables caching and per-route limits fail open.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if preset := strings.TrimSpace(opts.SeedPreset); preset != "" {
		if err := seedIfEmpty(context.Background(), cfg, db, preset); err != nil {
			return nil, nil, fmt.Errorf("failed to seed preset %q: %w", preset, err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(ctx context.Context, cfg *config.Config, db *gorm.DB, preset string) error {
	if cfg.IsProduction() {
		middleware.Logger.Warn("Skipping seed in production", slog.String("preset", preset))
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		middleware.Logger.Info("Database already populated, skipping seed", slog.Int64("users", count))
		return nil
	}

	presets, err := seed.BuiltinPresets()
	if err != nil {
		return err
	}
	seedOpts, err := presets.Lookup(preset)
	if err != nil {
		return err
	}
	_, err = seed.NewSeeder(db, seedOpts).Run(ctx)
	return err
}
