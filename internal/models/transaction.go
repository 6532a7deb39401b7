package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Tipos de transacción
const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)

// MaxNotesLength es el largo máximo (en caracteres) de las notas
const MaxNotesLength = 500

// Transaction representa una compra (o venta) registrada por un usuario
type Transaction struct {
	ID              string    `json:"id" bson:"_id"`
	UserID          string    `json:"userId" bson:"userId"`
	CoinSymbol      string    `json:"coinSymbol" bson:"coinSymbol"`
	CoinName        string    `json:"coinName,omitempty" bson:"coinName,omitempty"`
	TransactionType string    `json:"transactionType" bson:"transactionType"`
	BuyPrice        float64   `json:"buyPrice" bson:"buyPrice"`
	Amount          float64   `json:"amount" bson:"amount"`
	TotalValue      float64   `json:"totalValue" bson:"totalValue"` // Siempre BuyPrice * Amount
	Fees            float64   `json:"fees" bson:"fees"`
	Exchange        string    `json:"exchange,omitempty" bson:"exchange,omitempty"`
	Notes           string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Verified        bool      `json:"verified" bson:"verified"`
	TransactionHash string    `json:"transactionHash,omitempty" bson:"transactionHash,omitempty"`
	Timestamp       time.Time `json:"timestamp" bson:"timestamp"`
}

// NormalizeSymbol deja el ticker en mayúsculas y sin espacios
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Normalize aplica las reglas de escritura: ticker normalizado, tipo por defecto,
// total recalculado y notas recortadas. Los repositorios la llaman antes de insertar.
func (t *Transaction) Normalize() {
	t.CoinSymbol = NormalizeSymbol(t.CoinSymbol)
	t.CoinName = strings.TrimSpace(t.CoinName)
	t.Exchange = strings.TrimSpace(t.Exchange)
	t.TransactionHash = strings.TrimSpace(t.TransactionHash)

	if t.TransactionType != TransactionTypeSell {
		t.TransactionType = TransactionTypeBuy
	}
	if t.Fees < 0 {
		t.Fees = 0
	}

	t.Notes = strings.TrimSpace(t.Notes)
	if utf8.RuneCountInString(t.Notes) > MaxNotesLength {
		t.Notes = string([]rune(t.Notes)[:MaxNotesLength])
	}

	t.TotalValue = t.BuyPrice * t.Amount
}
