package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialectos SQL soportados
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// DefaultSQLitePath se usa cuando el driver es sqlite y no hay DATABASE_URL
var DefaultSQLitePath = filepath.Join("database", "ledger.db")

// OpenSQL abre la base de datos, verifica la conexión y crea las tablas si no existen
func OpenSQL(ctx context.Context, dialect, dsn string) (*sql.DB, error) {
	var driverName string
	switch dialect {
	case DialectSQLite:
		driverName = "sqlite3"
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		// Crear el directorio de la base de datos si no existe
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
	case DialectPostgres:
		driverName = "postgres"
	default:
		return nil, fmt.Errorf("dialecto SQL no soportado: %s", dialect)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		// SQLite no tolera escrituras concurrentes desde varias conexiones
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("no se pudo conectar a la base de datos: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	// Crear tabla de usuarios si no existe
	createUsersTableSQL := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		first_name TEXT,
		last_name TEXT,
		created_at TIMESTAMP NOT NULL
	);`

	if _, err := db.ExecContext(ctx, createUsersTableSQL); err != nil {
		return fmt.Errorf("error al crear la tabla users: %w", err)
	}

	// Crear tabla de transacciones
	createTransactionsTableSQL := `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		coin_symbol TEXT NOT NULL,
		coin_name TEXT NOT NULL DEFAULT '',
		transaction_type TEXT NOT NULL DEFAULT 'buy',
		buy_price DOUBLE PRECISION NOT NULL CHECK (buy_price >= 0),
		amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
		total_value DOUBLE PRECISION NOT NULL CHECK (total_value >= 0),
		fees DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (fees >= 0),
		exchange TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		transaction_hash TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);`

	if _, err := db.ExecContext(ctx, createTransactionsTableSQL); err != nil {
		return fmt.Errorf("error al crear la tabla transactions: %w", err)
	}
	return nil
}

// Rebind convierte los placeholders "?" al formato del dialecto ($1, $2... en PostgreSQL)
func Rebind(dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
