package store

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no row matches the lookup
	ErrNotFound = errors.New("record not found")

	// ErrConstraint is the parent of every constraint violation reported by the engine
	ErrConstraint = errors.New("constraint violation")

	ErrDuplicateEmail = fmt.Errorf("%w: email already registered", ErrConstraint)
	ErrUnknownUser    = fmt.Errorf("%w: user does not exist", ErrConstraint)
	ErrUserReferenced = fmt.Errorf("%w: user is referenced by payments or login logs", ErrConstraint)
)

type violation int

const (
	noViolation violation = iota
	uniqueViolation
	foreignKeyViolation
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MySQL server error numbers
const (
	mysqlDupEntry         = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow2 = 1216
)

// classify maps a driver error to the kind of constraint it violated
func classify(err error) violation {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return uniqueViolation
		case sqlite3.ErrConstraintForeignKey:
			return foreignKeyViolation
		}
		return noViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return uniqueViolation
		case pgForeignKeyViolation:
			return foreignKeyViolation
		}
		return noViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDupEntry:
			return uniqueViolation
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferenced2, mysqlNoReferencedRow2:
			return foreignKeyViolation
		}
	}

	return noViolation
}

// translate replaces a driver error with sentinel when it is a violation of the given kind.
// The driver error stays in the chain.
func translate(err error, kind violation, sentinel error) error {
	if err == nil || classify(err) != kind {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
