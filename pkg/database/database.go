// Package database opens the PostgreSQL pool shared by repositories, the
// event bus outbox and migrations. Connections go through pgx's database/sql
// driver so sqlc-style query code and Watermill's SQL transport can share them.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ghuser/exportdesk/pkg/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// Database wraps *sql.DB with transaction and health helpers.
type Database struct {
	db  *sql.DB
	log logger.Logger
}

// NewPool parses url, opens a pgx-backed pool and verifies connectivity.
// Queries slower than 200ms are logged at warn level.
func NewPool(ctx context.Context, url string, log logger.Logger) (*Database, error) {
	connCfg, err := pgx.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	connCfg.Tracer = &queryTracer{log: log, threshold: slowQueryThreshold}

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{db: db, log: log}, nil
}

// DB returns the underlying *sql.DB for read queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back when it returns an error or panics.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.log.WarnContext(ctx, "rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks the database connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Close closes the pool.
func (d *Database) Close() error {
	return d.db.Close()
}

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// queryTracer logs queries that exceed threshold or fail.
type queryTracer struct {
	log       logger.Logger
	threshold time.Duration
	now       func() time.Time
}

func (t *queryTracer) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: t.clock()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := t.clock().Sub(qs.start)
	switch {
	case data.Err != nil:
		t.log.DebugContext(ctx, "query failed", "sql", qs.sql, "duration_ms", elapsed.Milliseconds(), "error", data.Err)
	case elapsed >= t.threshold:
		t.log.WarnContext(ctx, "slow query", "sql", qs.sql, "duration_ms", elapsed.Milliseconds(), "rows", data.CommandTag.RowsAffected())
	}
}
