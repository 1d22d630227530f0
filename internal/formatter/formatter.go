// Package formatter renders a schema as text or markdown.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/billingdb/internal/schema"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Formatter writes a whole schema
type Formatter interface {
	Format(s *schema.Schema) error
}

// New returns the single-stream formatter for the given format name
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatText, "":
		return NewTextFormatter(w), nil
	case FormatMarkdown, "md":
		return NewMarkdownFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use text or markdown)", format)
	}
}

// IncomingRelation is a foreign key of another table pointing at this one
type IncomingRelation struct {
	SourceTable  string
	SourceColumn string
	TargetColumn string
}

// incomingRelations finds every foreign key in s that targets the named table
func incomingRelations(tableName string, s *schema.Schema) []IncomingRelation {
	var incoming []IncomingRelation
	for _, table := range s.Tables {
		for _, rel := range table.Relations {
			if rel.TargetTable == tableName {
				incoming = append(incoming, IncomingRelation{
					SourceTable:  table.Name,
					SourceColumn: rel.SourceColumn,
					TargetColumn: rel.TargetColumn,
				})
			}
		}
	}
	return incoming
}

// columnAttributes lists the constraints of a column in a fixed order
func columnAttributes(table schema.Table, col schema.Column) []string {
	var attrs []string
	if table.IsPrimaryKey(col.Name) {
		attrs = append(attrs, "PK")
	}
	if col.AutoIncrement {
		attrs = append(attrs, "AUTO_INCREMENT")
	}
	if col.IsUnique {
		attrs = append(attrs, "UNIQUE")
	}
	if !col.Nullable && !table.IsPrimaryKey(col.Name) {
		attrs = append(attrs, "NOT NULL")
	}
	if col.DefaultValue != nil {
		attrs = append(attrs, "DEFAULT "+*col.DefaultValue)
	}
	for _, rel := range table.Relations {
		if rel.SourceColumn == col.Name {
			attrs = append(attrs, fmt.Sprintf("FK → %s.%s", rel.TargetTable, rel.TargetColumn))
		}
	}
	return attrs
}

// referencedTables lists the distinct targets of a table's foreign keys
func referencedTables(table schema.Table) []string {
	var targets []string
	seen := map[string]bool{}
	for _, rel := range table.Relations {
		if !seen[rel.TargetTable] {
			seen[rel.TargetTable] = true
			targets = append(targets, rel.TargetTable)
		}
	}
	return targets
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
