package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tordrt/billingdb/internal/schema"
)

// ErrUnreachable is returned when the storage engine cannot be reached
var ErrUnreachable = errors.New("database unreachable")

// Client is a connection to one of the supported engines
type Client interface {
	// Dialect reports which engine the client talks to
	Dialect() schema.Dialect

	// Exec runs a single statement that returns no rows
	Exec(ctx context.Context, stmt string) error

	// Extract reads the live structure of the named tables, or of every table if none are named
	Extract(ctx context.Context, tables []string) (*schema.Schema, error)

	// SQLX returns a database/sql handle for row-level work
	SQLX() *sqlx.DB

	Close() error
}

// ParseURL detects database type and returns the driver connection string
func ParseURL(url string) (schema.Dialect, string, error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return schema.Postgres, url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		// Strip mysql:// prefix for the Go MySQL driver
		return schema.MySQL, strings.TrimPrefix(url, "mysql://"), nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		// Strip sqlite:// prefix to get file path
		return schema.SQLite, strings.TrimPrefix(url, "sqlite://"), nil
	}

	return "", "", fmt.Errorf("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
}

// Connect opens a client for the given database URL. schemaName selects the
// PostgreSQL schema or MySQL database to inspect; empty means the default.
func Connect(ctx context.Context, url, schemaName string) (Client, error) {
	dialect, connStr, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case schema.Postgres:
		return NewPostgresClient(ctx, connStr, schemaName)
	case schema.MySQL:
		return NewMySQLClient(ctx, connStr, schemaName)
	case schema.SQLite:
		return NewSQLiteClient(ctx, connStr)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dialect)
	}
}

func unreachable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnreachable, err)
}
