package schema

import (
	"fmt"
	"strings"
)

// CreateTableSQL renders an idempotent CREATE TABLE IF NOT EXISTS statement for the dialect
func CreateTableSQL(d Dialect, t Table) (string, error) {
	switch d {
	case Postgres, MySQL, SQLite:
	default:
		return "", fmt.Errorf("unsupported dialect: %s", d)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", t.Name)
	}

	var lines []string
	inlinePK := false

	for _, col := range t.Columns {
		if col.AutoIncrement {
			if len(t.PrimaryKey) != 1 || t.PrimaryKey[0] != col.Name {
				return "", fmt.Errorf("table %s: auto-increment column %s must be the sole primary key", t.Name, col.Name)
			}
			inlinePK = true
		}
		lines = append(lines, "    "+columnSQL(d, col))
	}

	if !inlinePK && len(t.PrimaryKey) > 0 {
		lines = append(lines, fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(t.PrimaryKey, ", ")))
	}

	for _, rel := range t.Relations {
		lines = append(lines, fmt.Sprintf("    FOREIGN KEY (%s) REFERENCES %s(%s)",
			rel.SourceColumn, rel.TargetTable, rel.TargetColumn))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	if d == MySQL {
		b.WriteString(" ENGINE=InnoDB")
	}

	return b.String(), nil
}

// CreateSchemaSQL renders one statement per table, in schema order
func CreateSchemaSQL(d Dialect, s *Schema) ([]string, error) {
	stmts := make([]string, 0, len(s.Tables))
	for _, table := range s.Tables {
		stmt, err := CreateTableSQL(d, table)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func columnSQL(d Dialect, col Column) string {
	if col.AutoIncrement {
		switch d {
		case Postgres:
			return col.Name + " SERIAL PRIMARY KEY"
		case MySQL:
			return col.Name + " INT AUTO_INCREMENT PRIMARY KEY"
		default:
			return col.Name + " INTEGER PRIMARY KEY AUTOINCREMENT"
		}
	}

	parts := []string{col.Name, ParseType(col.Type).SQL(d)}
	if col.IsUnique {
		parts = append(parts, "UNIQUE")
	}
	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if col.DefaultValue != nil {
		parts = append(parts, "DEFAULT "+*col.DefaultValue)
	}
	return strings.Join(parts, " ")
}
