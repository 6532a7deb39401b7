package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AgusMolinaCode/crypto-ledger/internal/logger"
	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
	"github.com/AgusMolinaCode/crypto-ledger/internal/portfolio"
	"github.com/AgusMolinaCode/crypto-ledger/internal/repository"
)

// Códigos de error de validación que viajan en la redirección
const (
	ErrCodeMissingFields = "missing-fields"
	ErrCodeInvalidValues = "invalid-values"
)

// ValidationError describe un formulario de alta rechazado
type ValidationError struct {
	Code  string
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Field)
}

// QuoteSource devuelve la cotización de un único ticker
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (models.Quote, bool)
}

// LedgerService reúne las operaciones del libro de transacciones del usuario por defecto
type LedgerService struct {
	transactions repository.TransactionRepository
	users        repository.UserRepository
	market       *MarketRefresher
	quotes       QuoteSource
	ownerID      string
}

func NewLedgerService(store *repository.Store, market *MarketRefresher, quotes QuoteSource) *LedgerService {
	return &LedgerService{
		transactions: store.Transactions,
		users:        store.Users,
		market:       market,
		quotes:       quotes,
	}
}

// Bootstrap crea el usuario por defecto si hace falta y lo toma como dueño
func (s *LedgerService) Bootstrap(ctx context.Context) error {
	user, err := EnsureDefaultUser(ctx, s.users)
	if err != nil {
		return err
	}
	s.ownerID = user.ID
	return nil
}

func (s *LedgerService) OwnerID() string {
	return s.ownerID
}

// Snapshot devuelve el snapshot vigente del mercado
func (s *LedgerService) Snapshot() *models.MarketSnapshot {
	return s.market.Snapshot()
}

// Dashboard arma la vista principal: resumen, detalle e historial
func (s *LedgerService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	transactions, err := s.transactions.FindByOwner(ctx, s.ownerID)
	if err != nil {
		return nil, err
	}
	snapshot := s.market.Snapshot()

	// FindByOwner viene de la más antigua a la más nueva; la lista se muestra al revés
	history := make([]models.Transaction, len(transactions))
	for i, tx := range transactions {
		history[len(transactions)-1-i] = tx
	}

	return &models.Dashboard{
		Summary:      portfolio.ComputeSummary(transactions, snapshot),
		Breakdown:    portfolio.ComputeBreakdown(transactions, snapshot),
		Transactions: history,
		Snapshot:     snapshot,
	}, nil
}

// Portfolio arma la respuesta de /api/portfolio
func (s *LedgerService) Portfolio(ctx context.Context) (*models.PortfolioResponse, error) {
	transactions, err := s.transactions.FindByOwner(ctx, s.ownerID)
	if err != nil {
		return nil, err
	}
	snapshot := s.market.Snapshot()

	return &models.PortfolioResponse{
		Summary:       portfolio.ComputeSummary(transactions, snapshot),
		Breakdown:     portfolio.ComputeBreakdown(transactions, snapshot),
		MarketData:    snapshot.Quotes,
		GlobalMetrics: snapshot.Global,
	}, nil
}

// AssetStats devuelve las estadísticas por ticker
func (s *LedgerService) AssetStats(ctx context.Context) ([]models.AssetStats, error) {
	transactions, err := s.transactions.FindByOwner(ctx, s.ownerID)
	if err != nil {
		return nil, err
	}
	stats := portfolio.ComputeAssetStats(transactions)
	if stats == nil {
		stats = []models.AssetStats{}
	}
	return stats, nil
}

// History devuelve una página del historial, de la más nueva a la más antigua
func (s *LedgerService) History(ctx context.Context, limit, skip int) ([]models.Transaction, error) {
	transactions, err := s.transactions.ListByOwner(ctx, s.ownerID, limit, skip)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// Quote busca primero en el snapshot y si no está consulta al proveedor
func (s *LedgerService) Quote(ctx context.Context, symbol string) (models.Quote, bool) {
	symbol = models.NormalizeSymbol(symbol)
	if q, ok := s.market.Snapshot().Quote(symbol); ok {
		return q, true
	}
	if s.quotes == nil {
		return models.Quote{}, false
	}
	return s.quotes.Quote(ctx, symbol)
}

// AddTransaction valida el formulario, guarda la transacción y refresca el mercado
func (s *LedgerService) AddTransaction(ctx context.Context, form models.TransactionForm) (*models.Transaction, error) {
	tx, err := ParseTransactionForm(form)
	if err != nil {
		return nil, err
	}
	tx.UserID = s.ownerID

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	logger.L.Info("Transacción creada", "id", tx.ID, "symbol", tx.CoinSymbol, "amount", tx.Amount)

	s.market.Refresh(context.WithoutCancel(ctx))
	return tx, nil
}

// ToggleVerified invierte la marca de verificado. Un id inexistente no es un error.
func (s *LedgerService) ToggleVerified(ctx context.Context, id string) error {
	tx, err := s.transactions.ToggleVerified(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		logger.L.Debug("Transacción a verificar no encontrada", "id", id)
		return nil
	}
	if err != nil {
		return err
	}
	logger.L.Info("Transacción verificada", "id", id, "verified", tx.Verified)
	return nil
}

// DeleteTransaction elimina la transacción y refresca el mercado. Un id
// inexistente deja todo igual y no es un error.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	deleted, err := s.transactions.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted {
		logger.L.Info("Transacción eliminada", "id", id)
	}

	s.market.Refresh(context.WithoutCancel(ctx))
	return nil
}

// ParseTransactionForm valida el formulario de alta. Ticker, precio y cantidad
// son obligatorios; precio y cantidad deben ser números positivos.
func ParseTransactionForm(form models.TransactionForm) (*models.Transaction, error) {
	symbol := models.NormalizeSymbol(form.CoinSymbol)
	buyPrice := strings.TrimSpace(form.BuyPrice)
	amount := strings.TrimSpace(form.Amount)

	switch {
	case symbol == "":
		return nil, &ValidationError{Code: ErrCodeMissingFields, Field: "coinSymbol"}
	case buyPrice == "":
		return nil, &ValidationError{Code: ErrCodeMissingFields, Field: "buyPrice"}
	case amount == "":
		return nil, &ValidationError{Code: ErrCodeMissingFields, Field: "amount"}
	}

	price, ok := parsePositive(buyPrice)
	if !ok {
		return nil, &ValidationError{Code: ErrCodeInvalidValues, Field: "buyPrice"}
	}
	qty, ok := parsePositive(amount)
	if !ok {
		return nil, &ValidationError{Code: ErrCodeInvalidValues, Field: "amount"}
	}

	var fees float64
	if raw := strings.TrimSpace(form.Fees); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &ValidationError{Code: ErrCodeInvalidValues, Field: "fees"}
		}
		fees = f
	}

	tx := &models.Transaction{
		CoinSymbol:      symbol,
		CoinName:        form.CoinName,
		TransactionType: models.TransactionTypeBuy,
		BuyPrice:        price,
		Amount:          qty,
		Fees:            fees,
		Exchange:        form.Exchange,
		Notes:           form.Notes,
		TransactionHash: form.TransactionHash,
	}
	tx.Normalize()
	return tx, nil
}

func parsePositive(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
