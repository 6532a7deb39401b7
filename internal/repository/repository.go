package repository

import (
	"context"
	"errors"

	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
)

// TransactionRepository es el almacenamiento de transacciones. Hay tres
// implementaciones intercambiables: memoria, MongoDB y SQL.
type TransactionRepository interface {
	// Create normaliza la transacción, le asigna ID y fecha si faltan, y la inserta
	Create(ctx context.Context, tx *models.Transaction) error
	// FindByOwner devuelve todas las transacciones del usuario, de la más antigua a la más nueva
	FindByOwner(ctx context.Context, userID string) ([]models.Transaction, error)
	// ListByOwner devuelve una página de transacciones, de la más nueva a la más antigua
	ListByOwner(ctx context.Context, userID string, limit, skip int) ([]models.Transaction, error)
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	// ToggleVerified invierte la marca de verificado y devuelve la transacción actualizada
	ToggleVerified(ctx context.Context, id string) (*models.Transaction, error)
	// Delete elimina la transacción; devuelve false si no existía
	Delete(ctx context.Context, id string) (bool, error)
	// DistinctSymbols devuelve los tickers usados por cualquier usuario, ordenados
	DistinctSymbols(ctx context.Context) ([]string, error)
}

// UserRepository es el almacenamiento de usuarios
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// First devuelve el usuario más antiguo (el usuario por defecto)
	First(ctx context.Context) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Errores comunes
var (
	ErrNotFound = errors.New("registro no encontrado")
)

// prepareForInsert completa los campos que asigna el almacenamiento
func prepareForInsert(tx *models.Transaction) {
	tx.Normalize()
	if tx.ID == "" {
		tx.ID = models.GenerateID()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = models.Now()
	}
}
