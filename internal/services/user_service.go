package services

import (
	"context"
	"errors"

	"github.com/AgusMolinaCode/crypto-ledger/internal/logger"
	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
	"github.com/AgusMolinaCode/crypto-ledger/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Datos del usuario de demostración
const (
	DefaultUsername  = "demo_user"
	DefaultEmail     = "demo@example.com"
	defaultPassword  = "password123"
	defaultFirstName = "Demo"
	defaultLastName  = "User"
)

// EnsureDefaultUser devuelve el usuario más antiguo y, si no hay ninguno,
// crea el usuario de demostración.
func EnsureDefaultUser(ctx context.Context, users repository.UserRepository) (*models.User, error) {
	user, err := users.First(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		Username:  DefaultUsername,
		Email:     DefaultEmail,
		Password:  string(hashedPassword),
		FirstName: defaultFirstName,
		LastName:  defaultLastName,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.L.Info("Usuario por defecto creado", "id", user.ID, "email", user.Email)
	return user, nil
}
