package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements are executed one at a time because the MySQL driver rejects
// multi-statement strings unless multiStatements is enabled in the DSN.
var schemas = map[string][]string{
	DialectMySQL: {
		`CREATE TABLE IF NOT EXISTS treatments (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			document JSON NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(320) NULL,
			status VARCHAR(64) NULL,
			document JSON NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_appointments_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS treatments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NULL,
			status TEXT NULL,
			document TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_email ON appointments(email)`,
	},
}

// ApplySchema creates the treatments and appointments tables when missing.
func ApplySchema(ctx context.Context, db *sql.DB, dialect string) error {
	stmts, ok := schemas[dialect]
	if !ok {
		return fmt.Errorf("unknown sql dialect %q", dialect)
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("apply %s schema: %w", dialect, err)
		}
	}
	return nil
}
