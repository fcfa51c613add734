// Package repository provides database access layer.
//
// The store holds exactly one connection to the relational database. The
// handle is opened when the service starts, re-opened lazily when a ping of
// the idle connection before a query shows it has dropped, and closed at
// shutdown. A connection busy with another query is never pinged.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/policyscope/policyscope/internal/logging"
	"github.com/policyscope/policyscope/internal/metrics"
)

// Store errors.
var (
	ErrUnknownDriver    = errors.New("unknown database driver")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreClosed      = errors.New("store closed")
)

// NameSearchMode selects how name substring matches treat letter case.
type NameSearchMode string

const (
	// NameSearchStore uses plain LIKE; the column collation decides.
	NameSearchStore NameSearchMode = "store"
	// NameSearchInsensitive compares LOWER() of both sides.
	NameSearchInsensitive NameSearchMode = "insensitive"
)

// Config describes how to reach the store.
type Config struct {
	Driver         string
	Options        Options
	NameSearchMode NameSearchMode
	// PingTimeout bounds the liveness check run before each query.
	PingTimeout time.Duration
}

// Store provides database access methods over a single owned connection.
type Store struct {
	driver   Driver
	opts     Options
	nameMode NameSearchMode
	timeout  time.Duration
	logger   *slog.Logger
	metrics  metrics.Recorder

	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// New creates a Store and attempts the initial connection. A failed initial
// connection is logged and left for the next request to retry; only
// configuration errors are returned.
func New(ctx context.Context, cfg Config, logger *slog.Logger, recorder metrics.Recorder) (*Store, error) {
	drv, err := LookupDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	mode := cfg.NameSearchMode
	if mode == "" {
		mode = NameSearchStore
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	s := &Store{
		driver:   drv,
		opts:     cfg.Options,
		nameMode: mode,
		timeout:  timeout,
		logger:   logger.With(slog.String("component", "store"), slog.String("driver", drv.Name())),
		metrics:  recorder,
	}

	if _, err := s.Conn(ctx); err != nil {
		s.logger.Error("initial database connection failed", slog.String("error", s.sanitize(err)))
	} else {
		s.logger.Info("database connection established",
			slog.String("host", cfg.Options.Host),
			slog.String("database", cfg.Options.Database),
		)
	}

	return s, nil
}

// Driver returns the adapter the store was opened with.
func (s *Store) Driver() Driver {
	return s.driver
}

// Conn returns a live handle, reconnecting if the current one fails a ping.
// The returned handle is capped at one open connection.
func (s *Store) Conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	if s.db != nil {
		// A connection checked out by another query is alive; a ping would
		// only queue behind it.
		if s.db.Stats().InUse > 0 {
			return s.db, nil
		}

		err := s.ping(ctx, s.db)
		switch {
		case err == nil:
			return s.db, nil
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded) && s.db.Stats().InUse > 0:
			// Another query took the connection while the ping waited.
			return s.db, nil
		}
		s.logger.Warn("database connection lost, reconnecting", slog.String("error", s.sanitize(err)))
		_ = s.db.Close()
		s.db = nil
	}

	db, err := s.driver.Open(s.opts)
	if err != nil {
		s.metrics.IncStoreConnect(false)
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, s.scrub(err))
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := s.ping(ctx, db); err != nil {
		_ = db.Close()
		s.metrics.IncStoreConnect(false)
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, s.scrub(err))
	}

	s.metrics.IncStoreConnect(true)
	s.db = db
	return db, nil
}

func (s *Store) ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return db.PingContext(ctx)
}

// sanitize renders err for logging with the store password removed.
func (s *Store) sanitize(err error) string {
	return logging.SanitizeError(err, s.opts.Password)
}

// scrubbedError keeps the cause for errors.Is but prints sanitized text.
type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }

// scrub returns err with credentials removed from its message, so callers
// above the store can log it as is.
func (s *Store) scrub(err error) error {
	if err == nil {
		return nil
	}
	return &scrubbedError{msg: s.sanitize(err), err: err}
}

// Ping checks database connectivity, reconnecting if needed.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.Conn(ctx)
	return err
}

// Close closes the database connection. Later calls to Conn fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// query runs a ?-placeholder statement through the single connection.
func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	db, err := s.Conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, s.driver.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", s.scrub(err))
	}
	return rows, nil
}
