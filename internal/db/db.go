package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	Addr        string
	MaxConns    int32
	MaxIdleTime time.Duration
	AppName     string // shows up in pg_stat_activity
}

const connectTimeout = 30 * time.Second

// PoolConfig turns cfg into a pgxpool config. Sessions run in UTC so
// created_at/updated_at come back the same whatever the server zone is.
func PoolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("parse DB_ADDR: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MaxIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxIdleTime
	}

	params := pc.ConnConfig.RuntimeParams
	params["timezone"] = "UTC"
	if cfg.AppName != "" {
		params["application_name"] = cfg.AppName
	}
	return pc, nil
}

// New opens the pool and pings it; the whole start-up is bounded by
// connectTimeout.
func New(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
