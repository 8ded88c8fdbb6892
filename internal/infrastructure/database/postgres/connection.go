package postgres

import (
	"context"
	"credit-application-system/internal/config"
	"credit-application-system/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	fallbackPoolSize      = 10
	fallbackDialTimeout   = 5 * time.Second
	idleConnectionTTL     = 5 * time.Minute
	poolHealthCheckPeriod = time.Minute
)

var errNoDatabaseURL = errors.New("database url is not configured")

// Connect opens the pool shared by the customer and credit repositories and
// returns it only once the server answers a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	log := logger.With("component", "database")

	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	target := []any{
		slog.String("host", poolCfg.ConnConfig.Host),
		slog.Int("port", int(poolCfg.ConnConfig.Port)),
		slog.String("database", poolCfg.ConnConfig.Database),
		slog.Int("maxConns", int(poolCfg.MaxConns)),
	}

	log.InfoContext(ctx, "Opening credit database pool", target...)
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: open pool: %w", apperrors.ErrDatabase, err)
	}

	if err := ping(ctx, pool, poolCfg.ConnConfig.ConnectTimeout, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.InfoContext(ctx, "Credit database ready", target...)
	return pool, nil
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, errNoDatabaseURL
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	if poolCfg.MaxConns <= 0 {
		poolCfg.MaxConns = fallbackPoolSize
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	if poolCfg.ConnConfig.ConnectTimeout <= 0 {
		poolCfg.ConnConfig.ConnectTimeout = fallbackDialTimeout
	}
	poolCfg.MaxConnIdleTime = idleConnectionTTL
	poolCfg.HealthCheckPeriod = poolHealthCheckPeriod
	return poolCfg, nil
}

func ping(ctx context.Context, db DBPool, timeout time.Duration, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := db.Ping(ctx); err != nil {
		log.ErrorContext(ctx, "Credit database did not answer ping", slog.Duration("timeout", timeout), slog.Any("error", err))
		return fmt.Errorf("%w: ping: %w", apperrors.ErrDatabase, err)
	}
	log.DebugContext(ctx, "Credit database answered ping", slog.Duration("elapsed", time.Since(start)))
	return nil
}
