// Package store reads and writes billing records and reports constraint
// violations as typed errors.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tordrt/billingdb/internal/db"
	"github.com/tordrt/billingdb/internal/schema"
)

// Store groups the per-table repositories
type Store struct {
	Users     *Users
	Payments  *Payments
	LoginLogs *LoginLogs
}

// New creates a store on top of an open client. The schema is expected to exist.
func New(client db.Client, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	t := table{
		db:      client.SQLX(),
		dialect: client.Dialect(),
		log:     log.With(zap.String("dialect", string(client.Dialect()))),
	}
	return &Store{
		Users:     &Users{table: t},
		Payments:  &Payments{table: t},
		LoginLogs: &LoginLogs{table: t},
	}
}

// table holds what every repository needs to run queries
type table struct {
	db      *sqlx.DB
	dialect schema.Dialect
	log     *zap.Logger
}

// insert runs an INSERT built from the given column/value pairs and returns the new id
func (t table) insert(ctx context.Context, name string, cols []string, args []any) (int64, error) {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))

	if t.dialect == schema.Postgres {
		var id int64
		if err := t.db.QueryRowxContext(ctx, t.db.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := t.db.ExecContext(ctx, t.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t table) get(ctx context.Context, dest any, query string, args ...any) error {
	err := t.db.GetContext(ctx, dest, t.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (t table) list(ctx context.Context, dest any, query string, args ...any) error {
	return t.db.SelectContext(ctx, dest, t.db.Rebind(query), args...)
}

// columns collects the column list of an INSERT, leaving out empty optional
// values so the column default applies
type columns struct {
	names []string
	args  []any
}

func (c *columns) add(name string, value any) {
	c.names = append(c.names, name)
	c.args = append(c.args, value)
}

func (c *columns) addIfSet(name, value string) {
	if value != "" {
		c.add(name, value)
	}
}
