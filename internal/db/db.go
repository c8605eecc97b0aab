// Package db opens the Postgres pool behind the key-value and token stores.
package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Options tune the pool. Zero fields take the package defaults.
type Options struct {
	MaxConns        int32
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration
	PingTimeout     time.Duration
	// Attempts is how many pings are tried before giving up, RetryDelay the pause between them.
	Attempts   int
	RetryDelay time.Duration
}

const (
	defaultIdleTime    = 5 * time.Minute
	defaultLifetime    = 30 * time.Minute
	defaultPingTimeout = 5 * time.Second
	defaultRetryDelay  = time.Second
)

func (o Options) withDefaults() Options {
	if o.MaxConnIdleTime <= 0 {
		o.MaxConnIdleTime = defaultIdleTime
	}
	if o.MaxConnLifetime <= 0 {
		o.MaxConnLifetime = defaultLifetime
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = defaultPingTimeout
	}
	if o.Attempts <= 0 {
		o.Attempts = 1
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = defaultRetryDelay
	}
	return o
}

// Connect opens a pool on dsn and waits until the database answers a ping, retrying while
// it starts up.
func Connect(ctx context.Context, dsn string, logger *zap.Logger, opts Options) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse db dsn")
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	cfg.MaxConnLifetime = opts.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "open db pool")
	}

	for attempt := 1; ; attempt++ {
		err = ping(ctx, pool, opts.PingTimeout)
		if err == nil {
			break
		}
		if attempt >= opts.Attempts {
			pool.Close()
			return nil, errors.Wrapf(err, "ping db after %d attempts", attempt)
		}
		logger.Warn("database not ready", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, errors.Wrap(ctx.Err(), "ping db")
		case <-time.After(opts.RetryDelay):
		}
	}

	logger.Info("database connected",
		zap.String("host", cfg.ConnConfig.Host),
		zap.String("database", cfg.ConnConfig.Database),
		zap.Int32("max_conns", cfg.MaxConns))
	return pool, nil
}

func ping(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return pool.Ping(ctx)
}
