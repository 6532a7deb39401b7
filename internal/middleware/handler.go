package middleware

import (
	"github.com/AgusMolinaCode/crypto-ledger/internal/services"
)

// Handler agrupa los handlers HTTP; todos actúan sobre el usuario por defecto
type Handler struct {
	ledger *services.LedgerService
	driver string
}

// NewHandler crea los handlers. driver es el almacenamiento en uso, informado en /health.
func NewHandler(ledger *services.LedgerService, driver string) *Handler {
	return &Handler{ledger: ledger, driver: driver}
}
