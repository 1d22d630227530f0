package db

import (
	"context"
	"fmt"

	"github.com/tordrt/billingdb/internal/schema"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Migrator creates the declared tables and checks live tables against them
type Migrator struct {
	client   Client
	declared *schema.Schema
	log      *zap.Logger
}

// NewMigrator creates a migrator for the billing schema. A nil logger disables logging.
func NewMigrator(client Client, log *zap.Logger) *Migrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Migrator{
		client:   client,
		declared: schema.Billing(),
		log:      log.With(zap.String("dialect", string(client.Dialect()))),
	}
}

// Ensure creates every missing table, in dependency order. Running it again is a no-op.
func (m *Migrator) Ensure(ctx context.Context) error {
	for _, table := range m.declared.Tables {
		if err := m.EnsureTable(ctx, table.Name); err != nil {
			return err
		}
	}
	return nil
}

// EnsureTable creates the named table if it is absent, then checks that the
// live table matches the declaration. A pre-existing table with an
// incompatible definition yields schema.ErrIncompatibleTable.
func (m *Migrator) EnsureTable(ctx context.Context, name string) error {
	declared := m.declared.Table(name)
	if declared == nil {
		return fmt.Errorf("table %s is not part of the billing schema", name)
	}

	stmt, err := schema.CreateTableSQL(m.client.Dialect(), *declared)
	if err != nil {
		return err
	}

	m.log.Debug("executing DDL", zap.String("table", name), zap.String("sql", stmt))
	if err := m.client.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	if err := m.verifyTable(ctx, *declared); err != nil {
		return err
	}

	m.log.Info("table ensured", zap.String("table", name))
	return nil
}

// Verify checks every declared table without changing anything.
// All problems are reported together.
func (m *Migrator) Verify(ctx context.Context) error {
	var errs error
	for _, table := range m.declared.Tables {
		errs = multierr.Append(errs, m.verifyTable(ctx, table))
	}
	return errs
}

func (m *Migrator) verifyTable(ctx context.Context, declared schema.Table) error {
	live, err := m.client.Extract(ctx, []string{declared.Name})
	if err != nil {
		return fmt.Errorf("failed to inspect table %s: %w", declared.Name, err)
	}

	if err := schema.Compare(declared, live.Table(declared.Name)); err != nil {
		m.log.Warn("table does not match declaration", zap.String("table", declared.Name), zap.Error(err))
		return err
	}
	return nil
}
