package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tordrt/billingdb/internal/schema"
	"go.uber.org/zap/zaptest"
)

func newSQLiteClient(t *testing.T) *SQLiteClient {
	t.Helper()

	client, err := NewSQLiteClient(context.Background(), filepath.Join(t.TempDir(), "billing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestMigratorEnsureCreatesDeclaredTables(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)

	require.NoError(t, NewMigrator(client, zaptest.NewLogger(t)).Ensure(ctx))

	live, err := client.Extract(ctx, nil)
	require.NoError(t, err)

	for _, declared := range schema.Billing().Tables {
		table := live.Table(declared.Name)
		require.NotNil(t, table, "table %s", declared.Name)
		assert.NoError(t, schema.Compare(declared, table))
		assert.Equal(t, []string{"id"}, table.PrimaryKey)
		assert.True(t, table.Column("id").AutoIncrement, "%s.id should auto-increment", declared.Name)
	}

	users := live.Table(schema.UsersTable)
	assert.True(t, users.Column("email").IsUnique)
	assert.False(t, users.Column("first_name").Nullable)
	assert.True(t, users.Column("phone").Nullable)

	for _, name := range []string{schema.PaymentsTable, schema.LoginLogsTable} {
		relations := live.Table(name).Relations
		require.Len(t, relations, 1, name)
		assert.Equal(t, "user_id", relations[0].SourceColumn)
		assert.Equal(t, schema.UsersTable, relations[0].TargetTable)
		assert.Equal(t, "id", relations[0].TargetColumn)
	}
}

func TestMigratorEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	m := NewMigrator(client, nil)

	require.NoError(t, m.Ensure(ctx))
	first, err := client.Extract(ctx, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Ensure(ctx))
	}
	again, err := client.Extract(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Len(t, again.Tables, 3)
}

func TestMigratorEnsureTable(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	m := NewMigrator(client, nil)

	require.NoError(t, m.EnsureTable(ctx, schema.UsersTable))

	live, err := client.Extract(ctx, nil)
	require.NoError(t, err)
	require.Len(t, live.Tables, 1)
	assert.Equal(t, schema.UsersTable, live.Tables[0].Name)

	err = m.EnsureTable(ctx, "invoices")
	assert.Error(t, err)
}

func TestMigratorRejectsIncompatibleTable(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)

	require.NoError(t, client.Exec(ctx, `CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email VARCHAR(150) NOT NULL,
		name TEXT,
		payment_status VARCHAR(20) DEFAULT 'active'
	)`))

	err := NewMigrator(client, nil).Ensure(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrIncompatibleTable), "got %v", err)
	assert.Contains(t, err.Error(), "column first_name is missing")
	assert.Contains(t, err.Error(), "column email is not unique")
	assert.Contains(t, err.Error(), "column payment_status has default 'active', want 'pending'")

	// nothing is created after the conflict
	live, err := client.Extract(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, live.Table(schema.PaymentsTable))
}

func TestMigratorRejectsPlainPrimaryKey(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)

	require.NoError(t, client.Exec(ctx, `CREATE TABLE users (
		id BIGINT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(150) UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		phone VARCHAR(20),
		registered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		subscription_tier VARCHAR(50),
		payment_status VARCHAR(20) DEFAULT 'pending'
	)`))

	err := NewMigrator(client, nil).Ensure(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrIncompatibleTable)
	assert.Contains(t, err.Error(), "column id is not auto-increment")
	assert.NotContains(t, err.Error(), "payment_status")
	assert.NotContains(t, err.Error(), "registered_at")
}

func TestMigratorVerify(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	m := NewMigrator(client, nil)

	err := m.Verify(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrTableMissing)

	require.NoError(t, m.Ensure(ctx))
	assert.NoError(t, m.Verify(ctx))
}

func TestExtractSkipsUnknownTables(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	require.NoError(t, NewMigrator(client, nil).Ensure(ctx))

	s, err := client.Extract(ctx, []string{schema.UsersTable, "missing"})
	require.NoError(t, err)
	require.Len(t, s.Tables, 1)
	assert.Equal(t, schema.UsersTable, s.Tables[0].Name)
}

func TestExtractIndexes(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	require.NoError(t, NewMigrator(client, nil).Ensure(ctx))
	require.NoError(t, client.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments(user_id)`))

	s, err := client.Extract(ctx, []string{schema.PaymentsTable})
	require.NoError(t, err)

	indexes := s.Table(schema.PaymentsTable).Indexes
	require.Len(t, indexes, 1)
	assert.Equal(t, "idx_payments_user_id", indexes[0].Name)
	assert.Equal(t, []string{"user_id"}, indexes[0].Columns)
	assert.False(t, indexes[0].IsUnique)
}
