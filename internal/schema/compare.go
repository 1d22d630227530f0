package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

var (
	// ErrIncompatibleTable is returned when a table with the declared name
	// exists but its definition cannot serve the declared one.
	ErrIncompatibleTable = errors.New("incompatible table definition")

	// ErrTableMissing is returned when a declared table does not exist
	ErrTableMissing = errors.New("table does not exist")
)

// Compare checks a live table against its declaration. Every mismatch is
// reported; extra columns, indexes and relations on the live table are allowed.
func Compare(declared Table, actual *Table) error {
	if actual == nil || len(actual.Columns) == 0 {
		return fmt.Errorf("table %s: %w", declared.Name, ErrTableMissing)
	}

	var errs error

	for _, col := range declared.Columns {
		live := actual.Column(col.Name)
		if live == nil {
			errs = multierr.Append(errs, fmt.Errorf("column %s is missing", col.Name))
			continue
		}
		errs = multierr.Append(errs, compareColumn(declared, col, *live))
	}

	if !sameColumns(declared.PrimaryKey, actual.PrimaryKey) {
		errs = multierr.Append(errs, fmt.Errorf("primary key is %v, want %v", actual.PrimaryKey, declared.PrimaryKey))
	}

	for _, rel := range declared.Relations {
		if !hasRelation(actual.Relations, rel) {
			errs = multierr.Append(errs, fmt.Errorf("foreign key %s -> %s.%s is missing",
				rel.SourceColumn, rel.TargetTable, rel.TargetColumn))
		}
	}

	if errs != nil {
		return fmt.Errorf("table %s: %w: %w", declared.Name, ErrIncompatibleTable, errs)
	}
	return nil
}

func compareColumn(table Table, want, got Column) error {
	var errs error

	wantType, gotType := ParseType(want.Type), ParseType(got.Type)
	if !wantType.Compatible(gotType) {
		errs = multierr.Append(errs, fmt.Errorf("column %s has type %s, want %s", want.Name, got.Type, wantType))
	}

	// SQLite reports INTEGER PRIMARY KEY as nullable
	if !table.IsPrimaryKey(want.Name) && want.Nullable != got.Nullable {
		errs = multierr.Append(errs, fmt.Errorf("column %s nullable=%t, want %t", want.Name, got.Nullable, want.Nullable))
	}

	if want.IsUnique && !got.IsUnique {
		errs = multierr.Append(errs, fmt.Errorf("column %s is not unique", want.Name))
	}

	if want.AutoIncrement && !got.AutoIncrement {
		errs = multierr.Append(errs, fmt.Errorf("column %s is not auto-increment", want.Name))
	}

	if want.DefaultValue != nil {
		switch {
		case got.DefaultValue == nil:
			errs = multierr.Append(errs, fmt.Errorf("column %s has no default, want %s", want.Name, *want.DefaultValue))
		case !sameDefault(*want.DefaultValue, *got.DefaultValue):
			errs = multierr.Append(errs, fmt.Errorf("column %s has default %s, want %s", want.Name, *got.DefaultValue, *want.DefaultValue))
		}
	}

	return errs
}

// sameDefault compares two default expressions as the engines spell them:
// 'pending'::character varying (PostgreSQL), pending (MySQL) and 'pending'
// (SQLite) are the same value.
func sameDefault(a, b string) bool {
	return strings.EqualFold(normalizeDefault(a), normalizeDefault(b))
}

func normalizeDefault(v string) string {
	v = strings.TrimSpace(v)
	for len(v) >= 2 && v[0] == '(' && v[len(v)-1] == ')' {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}

	if strings.HasPrefix(v, "'") {
		if end := strings.LastIndex(v, "'"); end > 0 {
			return strings.ReplaceAll(v[1:end], "''", "'")
		}
	}

	if i := strings.Index(v, "::"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}

	switch strings.ToLower(v) {
	case "current_timestamp", "current_timestamp()", "now()":
		return "current_timestamp"
	}
	return v
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func hasRelation(relations []Relation, want Relation) bool {
	for _, rel := range relations {
		if rel.SourceColumn == want.SourceColumn &&
			rel.TargetTable == want.TargetTable &&
			rel.TargetColumn == want.TargetColumn {
			return true
		}
	}
	return false
}
