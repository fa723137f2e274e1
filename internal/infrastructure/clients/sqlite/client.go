package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/hospitalrecords/internal/infrastructure/observability"
	"github.com/zatekoja/hospitalrecords/pkg/config"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
	"github.com/zatekoja/hospitalrecords/pkg/retry"
)

const driverName = "sqlite3"

var (
	// ErrInMemory is returned by file-level operations on an in-memory database
	ErrInMemory = errors.New("database is in memory and has no file")
	// ErrClosed is wrapped by Conn when there is no open handle
	ErrClosed = errors.New("database handle is closed")
)

// Client owns the single connection to the local database file. It is created
// once and shared by every adapter; the handle may be swapped by ReplaceFile.
type Client struct {
	mu      sync.RWMutex
	db      *sqlx.DB
	cfg     config.DatabaseConfig
	metrics *observability.Metrics
}

// NewClient opens the database file, creating it when absent, and applies the
// schema. metrics may be nil.
func NewClient(ctx context.Context, cfg *config.DatabaseConfig, metrics *observability.Metrics) (*Client, error) {
	c := &Client{cfg: *cfg, metrics: metrics}

	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	c.db = db

	log.Debug().Str("path", cfg.Path).Msg("database ready (sqlite)")
	return c, nil
}

// NewClientFromDB wraps an already opened handle. The schema is not applied;
// it is meant for tests running against sqlmock.
func NewClientFromDB(db *sqlx.DB, cfg *config.DatabaseConfig) *Client {
	return &Client{db: db, cfg: *cfg}
}

func (c *Client) open(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, c.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", c.cfg.Path, err)
	}

	// SQLite works best with a single writer; this also keeps an in-memory
	// database alive for the life of the handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	retryConfig := retry.DefaultConfig()
	retryConfig.Retryable = IsBusy
	err = retry.DoWithLog(ctx, retryConfig, "SQLite",
		func() error {
			return db.PingContext(ctx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("database busy")
		},
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", c.cfg.Path, err)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// DB returns the current database handle, nil once closed. Adapters use
// Conn instead.
func (c *Client) DB() *sqlx.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Path returns the database file path
func (c *Client) Path() string {
	return c.cfg.Path
}

// InMemory reports whether the database has no backing file
func (c *Client) InMemory() bool {
	return c.cfg.InMemory()
}

// Close closes the database connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Conn returns the current database handle, or a storage error when the
// client has been closed or could not reopen after ReplaceFile.
func (c *Client) Conn() (*sqlx.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return nil, apperrors.NewStorageError("database is not open", ErrClosed)
	}
	return c.db, nil
}

// ReplaceFile swaps the database file for a new one. stage writes the
// candidate to a temp path next to the database; the candidate is opened,
// integrity checked and given the schema before the live file is touched.
// If the swap or the reopen fails the old file is put back, so a failed
// replace leaves the store as it was.
func (c *Client) ReplaceFile(ctx context.Context, stage func(path string) error) error {
	if c.InMemory() {
		return ErrInMemory
	}

	tmp := siblingPath(c.cfg.Path, "restore")
	defer removeFileSet(tmp)

	if err := stage(tmp); err != nil {
		return fmt.Errorf("failed to stage replacement: %w", err)
	}
	if err := c.verify(ctx, tmp); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		c.db = nil
	}

	old := siblingPath(c.cfg.Path, "old")
	if err := os.Rename(c.cfg.Path, old); err != nil {
		return errors.Join(fmt.Errorf("failed to move current database aside: %w", err), c.reopen(ctx))
	}
	removeSidecars(c.cfg.Path)

	swapErr := os.Rename(tmp, c.cfg.Path)
	if swapErr == nil {
		db, err := c.open(ctx)
		if err == nil {
			c.db = db
			removeFileSet(old)
			return nil
		}
		swapErr = err
	}

	// put the previous file back
	removeFileSet(c.cfg.Path)
	if err := os.Rename(old, c.cfg.Path); err != nil {
		return errors.Join(swapErr, fmt.Errorf("failed to restore previous database from %s: %w", old, err))
	}
	return errors.Join(swapErr, c.reopen(ctx))
}

// verify opens the file at path on its own handle and checks it is a usable
// database. The schema is applied so missing tables never reach the live file.
func (c *Client) verify(ctx context.Context, path string) error {
	cfg := c.cfg
	cfg.Path = path

	db, err := sqlx.Open(driverName, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer db.Close()

	var result string
	if err := db.GetContext(ctx, &result, "PRAGMA quick_check"); err != nil {
		return fmt.Errorf("replacement is not a usable database: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("replacement failed integrity check: %s", result)
	}

	return EnsureSchema(ctx, db)
}

// reopen must be called with mu held
func (c *Client) reopen(ctx context.Context) error {
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	c.db = db
	return nil
}

func siblingPath(path, purpose string) string {
	return fmt.Sprintf("%s.%s-%s", path, purpose, uuid.New().String())
}

// sidecar files SQLite may keep next to a database
var sidecarSuffixes = []string{"-journal", "-wal", "-shm"}

func removeSidecars(path string) {
	for _, suffix := range sidecarSuffixes {
		_ = os.Remove(path + suffix)
	}
}

func removeFileSet(path string) {
	_ = os.Remove(path)
	removeSidecars(path)
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	db, err := c.Conn()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Instrument starts a span for one statement and returns a function that ends
// it, recording the outcome and duration.
func (c *Client) Instrument(ctx context.Context, operation string) (context.Context, func(error)) {
	ctx, span := observability.StartSpan(ctx, "sqlite "+operation)
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", operation),
	)
	start := time.Now()

	return ctx, func(err error) {
		observability.RecordError(span, err)
		observability.RecordDBMetric(ctx, c.metrics, operation, time.Since(start), err)
		span.End()
	}
}

// IsBusy reports whether err is SQLite refusing access because another
// connection holds a lock.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

// IsForeignKeyViolation reports whether err is a rejected foreign key
func IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

// IsUniqueViolation reports whether err is a duplicate value in a unique column
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
