package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AgusMolinaCode/crypto-ledger/internal/database"
	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
)

type SQLUserRepository struct {
	db      *sql.DB
	dialect string
}

func NewSQLUserRepository(db *sql.DB, dialect string) *SQLUserRepository {
	return &SQLUserRepository{db: db, dialect: dialect}
}

func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.GenerateID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = models.Now()
	}

	query := `
		INSERT INTO users (id, username, email, password, first_name, last_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, database.Rebind(r.dialect, query),
		user.ID, user.Username, user.Email, user.Password, user.FirstName, user.LastName, user.CreatedAt)
	return err
}

func (r *SQLUserRepository) First(ctx context.Context) (*models.User, error) {
	query := `SELECT id, username, email, password, first_name, last_name, created_at FROM users ORDER BY created_at ASC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query))
}

func (r *SQLUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, username, email, password, first_name, last_name, created_at FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, database.Rebind(r.dialect, query), id))
}

func (r *SQLUserRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var firstName, lastName sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&firstName,
		&lastName,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName.String
	user.LastName = lastName.String
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}
