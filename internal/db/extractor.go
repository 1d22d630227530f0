package db

import (
	"context"
	"fmt"

	"github.com/tordrt/billingdb/internal/schema"
)

// catalog reads table metadata from one engine's system views
type catalog interface {
	tableNames(ctx context.Context) ([]string, error)
	columns(ctx context.Context, table string) ([]schema.Column, error)
	primaryKey(ctx context.Context, table string) ([]string, error)
	relations(ctx context.Context, table string) ([]schema.Relation, error)
	indexes(ctx context.Context, table string) ([]schema.Index, error)
}

// Extractor reads the live structure of a database
type Extractor struct {
	catalog catalog
}

// NewExtractor creates a PostgreSQL schema extractor
func NewExtractor(client *PostgresClient, schemaName string) *Extractor {
	return &Extractor{catalog: &postgresCatalog{pool: client.pool, schema: schemaName}}
}

// NewMySQLExtractor creates a MySQL schema extractor
func NewMySQLExtractor(client *MySQLClient, schemaName string) *Extractor {
	return &Extractor{catalog: &mysqlCatalog{db: client.SQLX(), schema: schemaName}}
}

// NewSQLiteExtractor creates a SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *Extractor {
	return &Extractor{catalog: &sqliteCatalog{db: client.SQLX()}}
}

// ExtractSchema extracts the named tables, or every table when none are named.
// Named tables that do not exist are left out of the result.
func (e *Extractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	existing, err := e.catalog.tableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	names := existing
	if len(tables) > 0 {
		present := make(map[string]bool, len(existing))
		for _, name := range existing {
			present[name] = true
		}
		names = names[:0:0]
		for _, name := range tables {
			if present[name] {
				names = append(names, name)
			}
		}
	}

	s := &schema.Schema{}
	for _, name := range names {
		table, err := e.extractTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", name, err)
		}
		s.Tables = append(s.Tables, *table)
	}

	return s, nil
}

func (e *Extractor) extractTable(ctx context.Context, name string) (*schema.Table, error) {
	table := &schema.Table{Name: name}
	var err error

	if table.Columns, err = e.catalog.columns(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if table.PrimaryKey, err = e.catalog.primaryKey(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	if table.Relations, err = e.catalog.relations(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	if table.Indexes, err = e.catalog.indexes(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}

	return table, nil
}
