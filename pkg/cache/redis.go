// Package cache holds the Redis-backed side stores of the order service:
// item defaults, the shipment-document read model and the per-order write lock.
//
// Every key lives under one namespace and is scoped to the tenant and order:
//
//	exportdesk:{kind}:{orgID}:{reference}
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/exportdesk/pkg/config"
)

const keyNamespace = "exportdesk"

// Key kinds. One per store so a store never reads another's values.
const (
	kindItemDefaults = "item-defaults"
	kindDocuments    = "documents"
	kindOrderLock    = "order-lock"
)

// orderKey builds the Redis key for one order-scoped value. The reference is
// trimmed the same way the order service normalises it.
func orderKey(kind string, orgID uuid.UUID, reference string) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyNamespace, kind, orgID, strings.TrimSpace(reference))
}

// RedisClient is the shared connection pool.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient dials cfg.RedisURL and verifies the connection. The pool is
// sized for short order-scoped commands: small values, no blocking calls.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second
	opts.ClientName = cfg.ServiceName

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisClient{client: rdb}, nil
}

// Ping reports whether Redis answers. Used by /health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close shuts the pool down.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client exposes the pool to the session store and the order lock.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
