package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/billingdb/internal/schema"
)

// MarkdownFormatter formats schema as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the schema in markdown format
func (f *MarkdownFormatter) Format(s *schema.Schema) error {
	_, _ = fmt.Fprintln(f.writer, "# Database Schema")
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range s.Tables {
		f.FormatTable(table, incomingRelations(table.Name, s))
	}
	return nil
}

// FormatTable writes one table section (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(table schema.Table, incoming []IncomingRelation) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)

	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)
	for _, col := range table.Columns {
		attrs := columnAttributes(table, col)
		if len(attrs) > 0 {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", col.Name, col.Type, strings.Join(attrs, ", "))
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col.Name, col.Type)
		}
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(table.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### References")
		_, _ = fmt.Fprintln(f.writer)
		for _, rel := range table.Relations {
			_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s (%s)\n", rel.SourceColumn, rel.TargetTable, rel.TargetColumn, rel.Cardinality)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(incoming) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Referenced by")
		_, _ = fmt.Fprintln(f.writer)
		for _, rel := range incoming {
			_, _ = fmt.Fprintf(f.writer, "- %s.%s → %s\n", rel.SourceTable, rel.SourceColumn, rel.TargetColumn)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(table.Indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Indexes")
		_, _ = fmt.Fprintln(f.writer)
		for _, idx := range table.Indexes {
			unique := ""
			if idx.IsUnique {
				unique = ", unique"
			}
			_, _ = fmt.Fprintf(f.writer, "- %s on (%s)%s\n", idx.Name, joinColumns(idx.Columns), unique)
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}
