package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/billingdb/internal/schema"
)

// TextFormatter formats schema as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	for i, table := range s.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer)
		}
		f.writeTable(table, incomingRelations(table.Name, s))
	}
	return nil
}

// FormatTable writes one table together with the foreign keys pointing at it
func (f *TextFormatter) FormatTable(table schema.Table, incoming []IncomingRelation) {
	f.writeTable(table, incoming)
}

func (f *TextFormatter) writeTable(table schema.Table, incoming []IncomingRelation) {
	pk := ""
	if len(table.PrimaryKey) > 0 {
		pk = fmt.Sprintf(" (PK: %s)", joinColumns(table.PrimaryKey))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", table.Name, pk)

	for _, col := range table.Columns {
		line := []string{col.Name + ":", col.Type}
		for _, attr := range columnAttributes(table, col) {
			if attr != "PK" {
				line = append(line, attr)
			}
		}
		_, _ = fmt.Fprintf(f.writer, "  %s\n", strings.Join(line, " "))
	}

	if len(table.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  RELATIONS:")
		for _, rel := range table.Relations {
			_, _ = fmt.Fprintf(f.writer, "    %s → %s.%s (%s)\n", rel.SourceColumn, rel.TargetTable, rel.TargetColumn, rel.Cardinality)
		}
	}

	if len(incoming) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  REFERENCED BY:")
		for _, rel := range incoming {
			_, _ = fmt.Fprintf(f.writer, "    %s.%s → %s\n", rel.SourceTable, rel.SourceColumn, rel.TargetColumn)
		}
	}

	if len(table.Indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  INDEXES:")
		for _, idx := range table.Indexes {
			unique := ""
			if idx.IsUnique {
				unique = " UNIQUE"
			}
			_, _ = fmt.Fprintf(f.writer, "    %s (%s)%s\n", idx.Name, joinColumns(idx.Columns), unique)
		}
	}
}
