// Package store is the database-driver collaborator spec.md §6 describes:
// connection acquisition, parameterised queries, and session-scoped
// transactions. The Cache Monitor depends only on the Store/Tx contract in
// this file; table shapes and SQL text live in schema.go/accessors.go.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Store owns a session pool for the lifetime of the monitor process. Per
// spec.md §5, the design assumes one session (one pgx connection, and thus
// one transaction) per in-flight pipeline iteration, drawn from this pool —
// concurrent review-pass pipelines each get their own connection instead of
// contending for a single global session.
type Store struct {
	pool *pgxpool.Pool

	// timeout bounds every individual read issued directly against pool
	// (monitorconfig.Config.DBTimeout). Writes go through a *Tx, whose
	// lifetime spans multiple statements, so they are left to the caller's
	// context instead.
	timeout time.Duration
}

// Open connects to dsn and applies the schema if it is not already present.
// A non-zero timeout bounds every individual pool-level read made through
// the returned Store.
func Open(ctx context.Context, dsn string, maxConns int32, timeout time.Duration) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	s := &Store{pool: pool, timeout: timeout}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// withTimeout wraps ctx with s.timeout, if configured.
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Close releases the pool. It is safe to call once, at process shutdown.
func (s *Store) Close() {
	s.pool.Close()
}

// Tx is a session-scoped transaction acquired from the pool. The Persister
// (spec.md §4.4) and Flush-on-start (spec.md §4.6) are the only callers that
// need one; the Reconciler's lookups run directly against the pool.
type Tx struct {
	pgx.Tx
}

// Begin acquires a connection from the pool and starts a transaction on it.
// The caller must Commit or Rollback; either releases the connection back
// to the pool.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: begin: %w", err)
	}
	return &Tx{Tx: tx}, nil
}

// Commit commits the transaction, releasing the underlying connection.
func (t *Tx) Commit(ctx context.Context) error {
	return t.Tx.Commit(ctx)
}

// Rollback aborts the transaction, releasing the underlying connection. It
// is safe to call after a successful Commit (returns pgx.ErrTxClosed, which
// callers ignore).
func (t *Tx) Rollback(ctx context.Context) error {
	return t.Tx.Rollback(ctx)
}
