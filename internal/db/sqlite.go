package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tordrt/billingdb/internal/schema"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient creates a new SQLite client.
// Foreign key enforcement is switched on for every pooled connection.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// each connection to :memory: is a separate database
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", unreachable(err))
	}

	return &SQLiteClient{db: db}, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// Dialect implements Client
func (c *SQLiteClient) Dialect() schema.Dialect {
	return schema.SQLite
}

// Exec implements Client
func (c *SQLiteClient) Exec(ctx context.Context, stmt string) error {
	_, err := c.db.ExecContext(ctx, stmt)
	return err
}

// Extract implements Client
func (c *SQLiteClient) Extract(ctx context.Context, tables []string) (*schema.Schema, error) {
	return NewSQLiteExtractor(c).ExtractSchema(ctx, tables)
}

// SQLX implements Client
func (c *SQLiteClient) SQLX() *sqlx.DB {
	return sqlx.NewDb(c.db, "sqlite3")
}
