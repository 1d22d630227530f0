package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tordrt/billingdb/internal/schema"
)

type postgresCatalog struct {
	pool   *pgxpool.Pool
	schema string
}

func (c *postgresCatalog) tableNames(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, c.schema)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (c *postgresCatalog) columns(ctx context.Context, table string) ([]schema.Column, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.is_nullable = 'YES',
			c.column_default,
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.constraint_column_usage ccu
					ON tc.constraint_name = ccu.constraint_name
					AND tc.table_schema = ccu.table_schema
				WHERE tc.table_schema = $1
					AND tc.table_name = $2
					AND tc.constraint_type = 'UNIQUE'
					AND ccu.column_name = c.column_name
			)
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`, c.schema, table)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (schema.Column, error) {
		var (
			col                       schema.Column
			dataType, udtName         string
			charLen, precision, scale *int
		)
		if err := row.Scan(&col.Name, &dataType, &udtName, &charLen, &precision, &scale,
			&col.Nullable, &col.DefaultValue, &col.IsUnique); err != nil {
			return col, err
		}

		col.Type = postgresType(dataType, udtName, charLen, precision, scale)
		if col.DefaultValue != nil && strings.HasPrefix(*col.DefaultValue, "nextval(") {
			col.AutoIncrement = true
			col.DefaultValue = nil
		}
		return col, nil
	})
}

// postgresType shortens the SQL-standard names information_schema reports
func postgresType(dataType, udtName string, charLen, precision, scale *int) string {
	switch dataType {
	case "character varying":
		if charLen != nil {
			return fmt.Sprintf("varchar(%d)", *charLen)
		}
		return "varchar"
	case "character":
		if charLen != nil {
			return fmt.Sprintf("char(%d)", *charLen)
		}
		return "char"
	case "numeric":
		if precision != nil && scale != nil {
			return fmt.Sprintf("numeric(%d,%d)", *precision, *scale)
		}
		return "numeric"
	case "timestamp without time zone":
		return "timestamp"
	case "timestamp with time zone":
		return "timestamptz"
	case "USER-DEFINED":
		return udtName
	default:
		return dataType
	}
}

func (c *postgresCatalog) primaryKey(ctx context.Context, table string) ([]string, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1
			AND tc.table_name = $2
			AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`, c.schema, table)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (c *postgresCatalog) relations(ctx context.Context, table string) ([]schema.Relation, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT kcu.column_name, ccu.table_name, ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`, c.schema, table)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (schema.Relation, error) {
		rel := schema.Relation{Cardinality: "N:1"}
		err := row.Scan(&rel.SourceColumn, &rel.TargetTable, &rel.TargetColumn)
		return rel, err
	})
}

func (c *postgresCatalog) indexes(ctx context.Context, table string) ([]schema.Index, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT
			i.relname,
			ix.indisunique,
			array_agg(a.attname ORDER BY array_position(ix.indkey, a.attnum))
		FROM pg_class t
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE t.relkind = 'r'
			AND n.nspname = $1
			AND t.relname = $2
			AND NOT ix.indisprimary
		GROUP BY i.relname, ix.indisunique
		ORDER BY i.relname
	`, c.schema, table)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (schema.Index, error) {
		var idx schema.Index
		err := row.Scan(&idx.Name, &idx.IsUnique, &idx.Columns)
		return idx, err
	})
}
