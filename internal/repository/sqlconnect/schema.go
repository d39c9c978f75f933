package sqlconnect

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL applied by EnsureSchema.
func Schema() string { return schemaSQL }

// EnsureSchema creates the tables the service needs if they are missing.
// Every statement is idempotent, so it is safe to run on each start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
