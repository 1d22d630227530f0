package schema

// Dialect names a supported SQL engine
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// Schema represents a complete database schema
type Schema struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Relations  []Relation
	Indexes    []Index
	PrimaryKey []string
}

// Column represents a table column
type Column struct {
	Name          string
	Type          string
	Nullable      bool
	DefaultValue  *string
	IsUnique      bool
	AutoIncrement bool
}

// Relation represents a foreign key relationship
type Relation struct {
	TargetTable  string
	TargetColumn string
	SourceColumn string
	Cardinality  string // 1:1, 1:N, N:1
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// Table returns the table with the given name, or nil.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// IsPrimaryKey reports whether the column is part of the primary key.
func (t *Table) IsPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}

// Filter keeps only the named tables, in schema order. An empty list keeps everything.
func (s *Schema) Filter(tables []string) *Schema {
	if len(tables) == 0 {
		return s
	}

	keep := make(map[string]bool, len(tables))
	for _, name := range tables {
		keep[name] = true
	}

	filtered := &Schema{}
	for _, table := range s.Tables {
		if keep[table.Name] {
			filtered.Tables = append(filtered.Tables, table)
		}
	}
	return filtered
}

// Exclude drops the named tables from the schema in place
func (s *Schema) Exclude(tables []string) {
	if len(tables) == 0 {
		return
	}

	excludeSet := make(map[string]bool, len(tables))
	for _, name := range tables {
		excludeSet[name] = true
	}

	filtered := make([]Table, 0, len(s.Tables))
	for _, table := range s.Tables {
		if !excludeSet[table.Name] {
			filtered = append(filtered, table)
		}
	}
	s.Tables = filtered
}
