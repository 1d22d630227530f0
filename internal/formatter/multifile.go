package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/billingdb/internal/schema"
)

const overviewName = "_overview"

// MultiFileFormatter writes an overview file plus one file per table into a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the schema to multiple files
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeFile(overviewName, func(w io.Writer) { f.writeOverview(w, s) }); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, table := range s.Tables {
		incoming := incomingRelations(table.Name, s)
		err := f.writeFile(table.Name, func(w io.Writer) {
			if f.markdown() {
				NewMarkdownFormatter(w).FormatTable(table, incoming)
			} else {
				NewTextFormatter(w).FormatTable(table, incoming)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeFile(name string, write func(w io.Writer)) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name+f.extension()))
	if err != nil {
		return err
	}
	write(file)
	return file.Close()
}

func (f *MultiFileFormatter) writeOverview(w io.Writer, s *schema.Schema) {
	if f.markdown() {
		_, _ = fmt.Fprintf(w, "# Schema Overview\n\n")
		_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", f.extension())
		_, _ = fmt.Fprintf(w, "## Tables\n\n")
	} else {
		_, _ = fmt.Fprintf(w, "SCHEMA OVERVIEW\n")
		_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", f.extension())
	}

	sorted := make([]schema.Table, len(s.Tables))
	copy(sorted, s.Tables)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	for _, table := range sorted {
		line := table.Name
		if f.markdown() {
			line = "- **" + table.Name + "**"
		}
		if targets := referencedTables(table); len(targets) > 0 {
			line += fmt.Sprintf(" (references: %s)", strings.Join(targets, ", "))
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func (f *MultiFileFormatter) markdown() bool {
	return f.OutputFormat == FormatMarkdown || f.OutputFormat == "md"
}

func (f *MultiFileFormatter) extension() string {
	if f.markdown() {
		return ".md"
	}
	return ".txt"
}
