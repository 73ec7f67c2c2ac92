// Package migrations holds the schema as goose Go migrations, since every
// table needs driver-specific DDL.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect selects the DDL variant: "sqlite3", "postgres" or "mysql".
// Must be called before goose.Up.
func SetDialect(d string) {
	dialect = d
}
