package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerateID genera un identificador único para transacciones y usuarios
func GenerateID() string {
	return uuid.NewString()
}

// Now devuelve la hora actual en UTC truncada a milisegundos, la precisión
// que conservan todos los almacenamientos.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
