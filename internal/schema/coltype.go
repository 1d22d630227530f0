package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the dialect-independent family of a column type
type Kind int

const (
	KindOther Kind = iota
	KindInteger
	KindVarchar
	KindText
	KindTimestamp
	KindDecimal
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindVarchar:
		return "varchar"
	case KindText:
		return "text"
	case KindTimestamp:
		return "timestamp"
	case KindDecimal:
		return "decimal"
	default:
		return "other"
	}
}

// ColumnType is a normalized column type.
// Length applies to varchar, Precision and Scale to decimal.
type ColumnType struct {
	Kind      Kind
	Length    int
	Precision int
	Scale     int
	Raw       string
}

// ParseType normalizes the type spellings reported by PostgreSQL, MySQL and
// SQLite ("character varying(100)", "int(11)", "numeric(10,2)", "DATETIME"...).
func ParseType(raw string) ColumnType {
	s := strings.ToLower(strings.TrimSpace(raw))
	ct := ColumnType{Raw: raw}

	base := s
	var args []int
	if open := strings.Index(s, "("); open >= 0 {
		base = strings.TrimSpace(s[:open])
		if closing := strings.Index(s[open:], ")"); closing > 0 {
			args = parseTypeArgs(s[open+1 : open+closing])
		}
	}
	base = strings.TrimSuffix(base, " unsigned")

	switch base {
	case "int", "integer", "int4", "int8", "bigint", "serial", "bigserial", "mediumint":
		ct.Kind = KindInteger
	case "varchar", "character varying", "nvarchar", "varying character":
		ct.Kind = KindVarchar
		if len(args) > 0 {
			ct.Length = args[0]
		}
	case "text", "tinytext", "mediumtext", "longtext", "clob":
		ct.Kind = KindText
	case "timestamp", "timestamp without time zone", "timestamptz", "timestamp with time zone", "datetime":
		ct.Kind = KindTimestamp
	case "decimal", "numeric":
		ct.Kind = KindDecimal
		if len(args) > 0 {
			ct.Precision = args[0]
		}
		if len(args) > 1 {
			ct.Scale = args[1]
		}
	}

	return ct
}

func parseTypeArgs(s string) []int {
	var args []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil
		}
		args = append(args, n)
	}
	return args
}

// String renders the canonical lower-case spelling
func (ct ColumnType) String() string {
	switch ct.Kind {
	case KindVarchar:
		return fmt.Sprintf("varchar(%d)", ct.Length)
	case KindDecimal:
		return fmt.Sprintf("decimal(%d,%d)", ct.Precision, ct.Scale)
	case KindOther:
		return ct.Raw
	default:
		return ct.Kind.String()
	}
}

// SQL renders the type for use in a CREATE TABLE statement
func (ct ColumnType) SQL(d Dialect) string {
	switch ct.Kind {
	case KindInteger:
		if d == MySQL {
			return "INT"
		}
		return "INTEGER"
	case KindVarchar:
		return fmt.Sprintf("VARCHAR(%d)", ct.Length)
	case KindText:
		return "TEXT"
	case KindTimestamp:
		return "TIMESTAMP"
	case KindDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", ct.Precision, ct.Scale)
	default:
		return strings.ToUpper(ct.Raw)
	}
}

// Compatible reports whether a live column type can hold what the declared type describes
func (ct ColumnType) Compatible(actual ColumnType) bool {
	if ct.Kind != actual.Kind {
		return false
	}

	switch ct.Kind {
	case KindVarchar:
		return ct.Length == actual.Length
	case KindDecimal:
		return ct.Precision == actual.Precision && ct.Scale == actual.Scale
	case KindOther:
		return strings.EqualFold(strings.TrimSpace(ct.Raw), strings.TrimSpace(actual.Raw))
	default:
		return true
	}
}
