package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
)

// queryer is the subset of *sql.DB the repository needs. Both *sql.DB and
// *LoggingDB satisfy it.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// LoggingDB wraps sql.DB to log every statement with its duration
type LoggingDB struct {
	*sql.DB
	logger *logrus.Logger
}

// NewLoggingDB creates a new LoggingDB wrapper
func NewLoggingDB(db *sql.DB, logger *logrus.Logger) *LoggingDB {
	return &LoggingDB{
		DB:     db,
		logger: logger,
	}
}

// ExecContext wraps sql.DB.ExecContext with automatic logging
func (db *LoggingDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	startTime := time.Now()
	result, err := db.DB.ExecContext(ctx, query, args...)
	duration := time.Since(startTime)

	var rowsAffected int64 = -1
	if err == nil && result != nil {
		rowsAffected, _ = result.RowsAffected()
	}

	logging.LogSQL(ctx, db.logger, query, args, duration, rowsAffected, err)

	return result, err
}

// QueryContext wraps sql.DB.QueryContext with automatic logging
func (db *LoggingDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	startTime := time.Now()
	rows, err := db.DB.QueryContext(ctx, query, args...)
	duration := time.Since(startTime)

	// row count is unknown until the caller scans
	logging.LogSQL(ctx, db.logger, query, args, duration, -1, err)

	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with automatic logging
func (db *LoggingDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	startTime := time.Now()
	row := db.DB.QueryRowContext(ctx, query, args...)
	duration := time.Since(startTime)

	// errors surface on Scan
	logging.LogSQL(ctx, db.logger, query, args, duration, -1, nil)

	return row
}
