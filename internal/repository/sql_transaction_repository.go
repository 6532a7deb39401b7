package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/AgusMolinaCode/crypto-ledger/internal/database"
	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
)

const transactionColumns = `id, user_id, coin_symbol, coin_name, transaction_type, buy_price, amount, total_value, fees, exchange, notes, verified, transaction_hash, created_at`

// SQLTransactionRepository guarda las transacciones en SQLite o PostgreSQL
type SQLTransactionRepository struct {
	db      *sql.DB
	dialect string
}

func NewSQLTransactionRepository(db *sql.DB, dialect string) *SQLTransactionRepository {
	return &SQLTransactionRepository{db: db, dialect: dialect}
}

func (r *SQLTransactionRepository) q(query string) string {
	return database.Rebind(r.dialect, query)
}

func (r *SQLTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	prepareForInsert(tx)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.q(query),
		tx.ID,
		tx.UserID,
		tx.CoinSymbol,
		tx.CoinName,
		tx.TransactionType,
		tx.BuyPrice,
		tx.Amount,
		tx.TotalValue,
		tx.Fees,
		tx.Exchange,
		tx.Notes,
		tx.Verified,
		tx.TransactionHash,
		tx.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("error al insertar la transacción: %w", err)
	}
	return nil
}

func (r *SQLTransactionRepository) FindByOwner(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at ASC`

	return r.query(ctx, query, userID)
}

func (r *SQLTransactionRepository) ListByOwner(ctx context.Context, userID string, limit, skip int) ([]models.Transaction, error) {
	if skip < 0 {
		skip = 0
	}

	var b strings.Builder
	b.WriteString(`
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC`)
	args := []any{userID}
	if limit > 0 {
		b.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, limit, skip)
	} else if skip > 0 {
		// SQLite exige LIMIT para usar OFFSET; -1 significa sin límite
		if r.dialect == database.DialectSQLite {
			b.WriteString(` LIMIT -1 OFFSET ?`)
		} else {
			b.WriteString(` OFFSET ?`)
		}
		args = append(args, skip)
	}

	return r.query(ctx, b.String(), args...)
}

func (r *SQLTransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, r.q(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *SQLTransactionRepository) ToggleVerified(ctx context.Context, id string) (*models.Transaction, error) {
	res, err := r.db.ExecContext(ctx, r.q(`UPDATE transactions SET verified = NOT verified WHERE id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("error al actualizar la transacción: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *SQLTransactionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM transactions WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("error al eliminar la transacción: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLTransactionRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT coin_symbol FROM transactions ORDER BY coin_symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

func (r *SQLTransactionRepository) query(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}
	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var tx models.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.CoinSymbol,
		&tx.CoinName,
		&tx.TransactionType,
		&tx.BuyPrice,
		&tx.Amount,
		&tx.TotalValue,
		&tx.Fees,
		&tx.Exchange,
		&tx.Notes,
		&tx.Verified,
		&tx.TransactionHash,
		&tx.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	tx.Timestamp = tx.Timestamp.UTC()
	return &tx, nil
}
