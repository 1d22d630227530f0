package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/tordrt/billingdb/internal/schema"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db         *sql.DB
	schemaName string
}

// NewMySQLClient creates a new MySQL client.
// parseTime is always enabled so TIMESTAMP columns scan into time.Time, and
// updates report matched rather than changed rows.
func NewMySQLClient(ctx context.Context, connString, schemaName string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true

	if schemaName == "" {
		schemaName = cfg.DBName
	}
	if schemaName == "" {
		return nil, fmt.Errorf("MySQL DSN has no database name")
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := sql.OpenDB(connector)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", unreachable(err))
	}

	return &MySQLClient{db: db, schemaName: schemaName}, nil
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// Dialect implements Client
func (c *MySQLClient) Dialect() schema.Dialect {
	return schema.MySQL
}

// Exec implements Client
func (c *MySQLClient) Exec(ctx context.Context, stmt string) error {
	_, err := c.db.ExecContext(ctx, stmt)
	return err
}

// Extract implements Client
func (c *MySQLClient) Extract(ctx context.Context, tables []string) (*schema.Schema, error) {
	return NewMySQLExtractor(c, c.schemaName).ExtractSchema(ctx, tables)
}

// SQLX implements Client
func (c *MySQLClient) SQLX() *sqlx.DB {
	return sqlx.NewDb(c.db, "mysql")
}
