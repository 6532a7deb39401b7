package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// RunMigrations crea los índices que usan las consultas por usuario
func RunMigrations(ctx context.Context, db *sql.DB) error {
	slog.Debug("Ejecutando migraciones de la base de datos...")

	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_symbol ON transactions(user_id, coin_symbol);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_created_at ON transactions(user_id, created_at DESC);`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error en migración %q: %w", stmt, err)
		}
	}
	return nil
}
