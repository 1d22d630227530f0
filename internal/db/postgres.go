package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/tordrt/billingdb/internal/schema"
)

const defaultPostgresSchema = "public"

// PostgresClient manages the connection pool to PostgreSQL
type PostgresClient struct {
	pool       *pgxpool.Pool
	sqlDB      *sqlx.DB
	schemaName string
}

// NewPostgresClient creates a new PostgreSQL client. A non-empty schemaName
// becomes the search_path, so unqualified DDL and queries land in it.
func NewPostgresClient(ctx context.Context, connString, schemaName string) (*PostgresClient, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if schemaName != "" {
		cfg.ConnConfig.RuntimeParams["search_path"] = schemaName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", unreachable(err))
	}

	if schemaName == "" {
		schemaName = defaultPostgresSchema
	}

	return &PostgresClient{
		pool:       pool,
		sqlDB:      sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx"),
		schemaName: schemaName,
	}, nil
}

// Close closes the database/sql view and the pool
func (c *PostgresClient) Close() error {
	err := c.sqlDB.Close()
	c.pool.Close()
	return err
}

// Dialect implements Client
func (c *PostgresClient) Dialect() schema.Dialect {
	return schema.Postgres
}

// Exec implements Client
func (c *PostgresClient) Exec(ctx context.Context, stmt string) error {
	_, err := c.pool.Exec(ctx, stmt)
	return err
}

// Extract implements Client
func (c *PostgresClient) Extract(ctx context.Context, tables []string) (*schema.Schema, error) {
	return NewExtractor(c, c.schemaName).ExtractSchema(ctx, tables)
}

// SQLX implements Client
func (c *PostgresClient) SQLX() *sqlx.DB {
	return c.sqlDB
}
