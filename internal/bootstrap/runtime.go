// Package bootstrap wires process-level dependencies shared by the
// commands: logging, tracing, the database and Redis.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"socialapi/internal/cache"
	"socialapi/internal/config"
	"socialapi/internal/database"
	"socialapi/internal/middleware"
	"socialapi/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipRedis leaves the Redis client nil even when REDIS_URL is set.
	SkipRedis bool
}

// Runtime holds the initialized process dependencies.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	shutdownTracing func(context.Context) error
}

// InitRuntime configures logging and tracing from cfg, then connects to
// the database and, unless skipped, Redis. A Redis failure is logged and
// leaves Redis nil.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.Logger = middleware.NewLogger(cfg.Env, cfg.LogLevel, os.Stdout)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    observability.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rt := &Runtime{DB: db, shutdownTracing: shutdownTracing}

	if !opts.SkipRedis && cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			middleware.Logger.Warn("redis unavailable, continuing without cache", "error", err.Error())
		} else {
			rt.Redis = rdb
		}
	}

	return rt, nil
}

// Close flushes traces. The database and Redis are owned by whoever the
// runtime handed them to.
func (r *Runtime) Close(ctx context.Context) error {
	if r.shutdownTracing == nil {
		return nil
	}
	return r.shutdownTracing(ctx)
}
