package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tordrt/billingdb/internal/schema"
)

// sqliteCatalog uses the pragma table-valued functions so table names are bound, not formatted
type sqliteCatalog struct {
	db *sqlx.DB
}

type sqliteColumn struct {
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull bool           `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

type sqliteIndex struct {
	Name   string `db:"name"`
	Unique bool   `db:"unique"`
	Origin string `db:"origin"`
}

func (c *sqliteCatalog) tableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.db.SelectContext(ctx, &names, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	return names, err
}

func (c *sqliteCatalog) columns(ctx context.Context, table string) ([]schema.Column, error) {
	var rows []sqliteColumn
	err := c.db.SelectContext(ctx, &rows,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, err
	}

	unique, err := c.uniqueColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	autoIncrement, err := c.hasAutoIncrement(ctx, table)
	if err != nil {
		return nil, err
	}

	columns := make([]schema.Column, 0, len(rows))
	for _, row := range rows {
		col := schema.Column{
			Name:     row.Name,
			Type:     row.Type,
			Nullable: !row.NotNull,
			// primary keys are reported separately
			IsUnique:      row.PK == 0 && unique[row.Name],
			AutoIncrement: row.PK > 0 && autoIncrement,
		}
		if row.Default.Valid {
			col.DefaultValue = &row.Default.String
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// uniqueColumns returns the columns covered by a single-column unique index
func (c *sqliteCatalog) uniqueColumns(ctx context.Context, table string) (map[string]bool, error) {
	indexes, err := c.indexList(ctx, table)
	if err != nil {
		return nil, err
	}

	unique := make(map[string]bool)
	for _, idx := range indexes {
		if !idx.Unique {
			continue
		}
		cols, err := c.indexColumns(ctx, idx.Name)
		if err != nil {
			return nil, err
		}
		if len(cols) == 1 {
			unique[cols[0]] = true
		}
	}
	return unique, nil
}

func (c *sqliteCatalog) hasAutoIncrement(ctx context.Context, table string) (bool, error) {
	var ddl sql.NullString
	err := c.db.GetContext(ctx, &ddl, `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToUpper(ddl.String), "AUTOINCREMENT"), nil
}

func (c *sqliteCatalog) primaryKey(ctx context.Context, table string) ([]string, error) {
	var pk []string
	err := c.db.SelectContext(ctx, &pk,
		`SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`, table)
	return pk, err
}

func (c *sqliteCatalog) relations(ctx context.Context, table string) ([]schema.Relation, error) {
	var rows []struct {
		Source       string `db:"source_column"`
		TargetTable  string `db:"target_table"`
		TargetColumn string `db:"target_column"`
	}
	err := c.db.SelectContext(ctx, &rows, `
		SELECT "from" AS source_column, "table" AS target_table, COALESCE("to", '') AS target_column
		FROM pragma_foreign_key_list(?)
		ORDER BY id, seq
	`, table)
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

// indexes skips the automatic indexes SQLite creates for UNIQUE and PRIMARY KEY
func (c *sqliteCatalog) indexes(ctx context.Context, table string) ([]schema.Index, error) {
	list, err := c.indexList(ctx, table)
	if err != nil {
		return nil, err
	}

	var indexes []schema.Index
	for _, idx := range list {
		if strings.HasPrefix(idx.Name, "sqlite_autoindex") {
			continue
		}
		cols, err := c.indexColumns(ctx, idx.Name)
		if err != nil {
			return nil, err
		}
		if len(cols) > 0 {
			indexes = append(indexes, schema.Index{Name: idx.Name, IsUnique: idx.Unique, Columns: cols})
		}
	}
	return indexes, nil
}

func (c *sqliteCatalog) indexList(ctx context.Context, table string) ([]sqliteIndex, error) {
	var list []sqliteIndex
	err := c.db.SelectContext(ctx, &list,
		`SELECT name, "unique", origin FROM pragma_index_list(?) ORDER BY name`, table)
	return list, err
}

func (c *sqliteCatalog) indexColumns(ctx context.Context, index string) ([]string, error) {
	var cols []string
	err := c.db.SelectContext(ctx, &cols,
		`SELECT name FROM pragma_index_info(?) WHERE name IS NOT NULL ORDER BY seqno`, index)
	return cols, err
}
