package schema

// Table names of the billing schema
const (
	UsersTable     = "users"
	PaymentsTable  = "payments"
	LoginLogsTable = "login_logs"
)

const (
	currentTimestamp = "CURRENT_TIMESTAMP"
	manyToOne        = "N:1"
)

// Billing returns the declared subscription-billing schema.
//
// Tables are listed in dependency order: users first, then the tables
// holding a foreign key to it. Creating them in this order always succeeds
// on engines that check references at creation time.
func Billing() *Schema {
	return &Schema{
		Tables: []Table{
			usersTable(),
			paymentsTable(),
			loginLogsTable(),
		},
	}
}

func usersTable() Table {
	return Table{
		Name:       UsersTable,
		PrimaryKey: []string{"id"},
		Columns: []Column{
			idColumn(),
			{Name: "first_name", Type: "varchar(100)"},
			{Name: "last_name", Type: "varchar(100)"},
			{Name: "email", Type: "varchar(150)", IsUnique: true},
			{Name: "password_hash", Type: "text"},
			{Name: "phone", Type: "varchar(20)", Nullable: true},
			{Name: "registered_at", Type: "timestamp", Nullable: true, DefaultValue: literal(currentTimestamp)},
			{Name: "subscription_tier", Type: "varchar(50)", Nullable: true},
			{Name: "payment_status", Type: "varchar(20)", Nullable: true, DefaultValue: literal("'pending'")},
		},
	}
}

func paymentsTable() Table {
	return Table{
		Name:       PaymentsTable,
		PrimaryKey: []string{"id"},
		Columns: []Column{
			idColumn(),
			{Name: "user_id", Type: "integer"},
			{Name: "amount", Type: "decimal(10,2)"},
			{Name: "currency", Type: "varchar(10)", Nullable: true, DefaultValue: literal("'TRY'")},
			{Name: "paid_at", Type: "timestamp", Nullable: true, DefaultValue: literal(currentTimestamp)},
			{Name: "payment_method", Type: "varchar(50)", Nullable: true},
			{Name: "status", Type: "varchar(20)", Nullable: true, DefaultValue: literal("'successful'")},
		},
		Relations: []Relation{userReference()},
	}
}

func loginLogsTable() Table {
	return Table{
		Name:       LoginLogsTable,
		PrimaryKey: []string{"id"},
		Columns: []Column{
			idColumn(),
			{Name: "user_id", Type: "integer"},
			{Name: "logged_in_at", Type: "timestamp", Nullable: true, DefaultValue: literal(currentTimestamp)},
			{Name: "ip_address", Type: "varchar(45)", Nullable: true},
		},
		Relations: []Relation{userReference()},
	}
}

func idColumn() Column {
	return Column{Name: "id", Type: "integer", AutoIncrement: true}
}

func userReference() Relation {
	return Relation{
		SourceColumn: "user_id",
		TargetTable:  UsersTable,
		TargetColumn: "id",
		Cardinality:  manyToOne,
	}
}

func literal(s string) *string {
	return &s
}
