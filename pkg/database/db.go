package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const DriverName = "sqlite3"

var (
	// ErrStoreUnavailable means no connection to the database file could be obtained.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrQueryPreparationFailed means the statement was rejected while preparing.
	ErrQueryPreparationFailed = errors.New("query preparation failed")
	// ErrQueryFailed means a prepared statement failed while executing or scanning.
	ErrQueryFailed = errors.New("query failed")
)

// Store is the read side of the celebrity database.
type Store interface {
	// Select runs one statement on a connection scoped to the call.
	Select(ctx context.Context, dest any, query string, args ...any) error
	PingContext(ctx context.Context) error
	Close() error
}

type Config struct {
	Path            string
	ReadOnly        bool
	BusyTimeoutMs   int
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN builds the go-sqlite3 data source name for the file at path.
func DSN(path string, readOnly bool, busyTimeoutMs int) string {
	params := url.Values{}
	if readOnly {
		params.Set("mode", "ro")
	} else {
		params.Set("mode", "rwc")
	}
	if busyTimeoutMs > 0 {
		params.Set("_busy_timeout", strconv.Itoa(busyTimeoutMs))
	}
	return "file:" + path + "?" + params.Encode()
}

type DatabaseInstance struct {
	*sqlx.DB
	logger ectologger.Logger
}

// NewDatabaseInstance wraps an open sqlx handle
func NewDatabaseInstance(db *sqlx.DB, logger ectologger.Logger) *DatabaseInstance {
	return &DatabaseInstance{
		DB:     db,
		logger: logger,
	}
}

// Open prepares a handle on the database file. No connection is made until
// the first Select or PingContext.
func Open(cfg Config, logger ectologger.Logger) (*DatabaseInstance, error) {
	db, err := sqlx.Open(DriverName, DSN(cfg.Path, cfg.ReadOnly, cfg.BusyTimeoutMs))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return NewDatabaseInstance(db, logger), nil
}

// WithConn acquires a dedicated connection, hands it to fn and releases it
// on every return path.
func (db *DatabaseInstance) WithConn(ctx context.Context, fn func(conn *sqlx.Conn) error) error {
	conn, err := db.Connx(ctx)
	if err != nil {
		db.logger.WithContext(ctx).WithError(err).Error("failed to acquire database connection")
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			db.logger.WithContext(ctx).WithError(cerr).Warn("failed to release database connection")
		}
	}()

	return fn(conn)
}

// Select prepares and runs query on its own connection and scans every row into dest
func (db *DatabaseInstance) Select(ctx context.Context, dest any, query string, args ...any) error {
	return db.WithConn(ctx, func(conn *sqlx.Conn) error {
		stmt, err := conn.PreparexContext(ctx, query)
		if err != nil {
			db.logger.WithContext(ctx).WithError(err).WithField("query", query).Error("failed to prepare query")
			return fmt.Errorf("%w: %w", ErrQueryPreparationFailed, err)
		}
		defer stmt.Close()

		if err := stmt.SelectContext(ctx, dest, args...); err != nil {
			db.logger.WithContext(ctx).WithError(err).WithField("query", query).Error("failed to execute query")
			return fmt.Errorf("%w: %w", ErrQueryFailed, err)
		}
		return nil
	})
}

// PingContext verifies a connection to the file can be opened.
func (db *DatabaseInstance) PingContext(ctx context.Context) error {
	return db.WithConn(ctx, func(conn *sqlx.Conn) error {
		if err := conn.PingContext(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return nil
	})
}
