package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tordrt/billingdb/internal/schema"
)

// MySQL 8 upper-cases information_schema headers, so every selected column is aliased

type mysqlCatalog struct {
	db     *sqlx.DB
	schema string
}

type mysqlColumn struct {
	Name     string         `db:"column_name"`
	Type     string         `db:"column_type"`
	Nullable string         `db:"is_nullable"`
	Default  sql.NullString `db:"column_default"`
	Unique   bool           `db:"is_unique"`
	Extra    string         `db:"extra"`
}

type mysqlIndex struct {
	Name    string `db:"index_name"`
	Unique  bool   `db:"is_unique"`
	Columns string `db:"column_names"`
}

func (c *mysqlCatalog) tableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.db.SelectContext(ctx, &names, `
		SELECT table_name AS table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, c.schema)
	return names, err
}

func (c *mysqlCatalog) columns(ctx context.Context, table string) ([]schema.Column, error) {
	var rows []mysqlColumn
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			c.column_name AS column_name,
			c.column_type AS column_type,
			c.is_nullable AS is_nullable,
			c.column_default AS column_default,
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON tc.constraint_name = kcu.constraint_name
					AND tc.table_schema = kcu.table_schema
					AND tc.table_name = kcu.table_name
				WHERE tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND tc.constraint_type = 'UNIQUE'
					AND kcu.column_name = c.column_name
			) AS is_unique,
			c.extra AS extra
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`, c.schema, table)
	if err != nil {
		return nil, err
	}

	columns := make([]schema.Column, 0, len(rows))
	for _, row := range rows {
		col := schema.Column{
			Name:          row.Name,
			Type:          row.Type,
			Nullable:      row.Nullable == "YES",
			IsUnique:      row.Unique,
			AutoIncrement: strings.Contains(strings.ToLower(row.Extra), "auto_increment"),
		}
		if row.Default.Valid {
			col.DefaultValue = &row.Default.String
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func (c *mysqlCatalog) primaryKey(ctx context.Context, table string) ([]string, error) {
	var pk []string
	err := c.db.SelectContext(ctx, &pk, `
		SELECT column_name AS column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position
	`, c.schema, table)
	return pk, err
}

func (c *mysqlCatalog) relations(ctx context.Context, table string) ([]schema.Relation, error) {
	var rows []struct {
		Source       string `db:"source_column"`
		TargetTable  string `db:"target_table"`
		TargetColumn string `db:"target_column"`
	}
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			column_name AS source_column,
			referenced_table_name AS target_table,
			referenced_column_name AS target_column
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND referenced_table_name IS NOT NULL
		ORDER BY ordinal_position
	`, c.schema, table)
	if err != nil {
		return nil, err
	}

	relations := make([]schema.Relation, 0, len(rows))
	for _, row := range rows {
		relations = append(relations, schema.Relation{
			SourceColumn: row.Source,
			TargetTable:  row.TargetTable,
			TargetColumn: row.TargetColumn,
			Cardinality:  "N:1",
		})
	}
	return relations, nil
}

func (c *mysqlCatalog) indexes(ctx context.Context, table string) ([]schema.Index, error) {
	var rows []mysqlIndex
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			index_name AS index_name,
			non_unique = 0 AS is_unique,
			GROUP_CONCAT(column_name ORDER BY seq_in_index) AS column_names
		FROM information_schema.statistics
		WHERE table_schema = ?
			AND table_name = ?
			AND index_name != 'PRIMARY'
		GROUP BY index_name, non_unique
		ORDER BY index_name
	`, c.schema, table)
	if err != nil {
		return nil, err
	}

	indexes := make([]schema.Index, 0, len(rows))
	for _, row := range rows {
		indexes = append(indexes, schema.Index{
			Name:     row.Name,
			IsUnique: row.Unique,
			Columns:  strings.Split(row.Columns, ","),
		})
	}
	return indexes, nil
}
