package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
)

// MemoryTransactionRepository guarda las transacciones en memoria; se pierden al reiniciar
type MemoryTransactionRepository struct {
	mu           sync.RWMutex
	transactions []models.Transaction // Orden de inserción
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{}
}

func (r *MemoryTransactionRepository) Create(_ context.Context, tx *models.Transaction) error {
	prepareForInsert(tx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, *tx)
	return nil
}

func (r *MemoryTransactionRepository) FindByOwner(_ context.Context, userID string) ([]models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range r.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (r *MemoryTransactionRepository) ListByOwner(ctx context.Context, userID string, limit, skip int) ([]models.Transaction, error) {
	all, _ := r.FindByOwner(ctx, userID)

	// Invertir: de la más nueva a la más antigua
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return paginate(all, limit, skip), nil
}

func (r *MemoryTransactionRepository) FindByID(_ context.Context, id string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tx := range r.transactions {
		if tx.ID == id {
			found := tx
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryTransactionRepository) ToggleVerified(_ context.Context, id string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.transactions {
		if r.transactions[i].ID == id {
			r.transactions[i].Verified = !r.transactions[i].Verified
			updated := r.transactions[i]
			return &updated, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryTransactionRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.transactions {
		if r.transactions[i].ID == id {
			r.transactions = append(r.transactions[:i:i], r.transactions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryTransactionRepository) DistinctSymbols(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var symbols []string
	for _, tx := range r.transactions {
		if !seen[tx.CoinSymbol] {
			seen[tx.CoinSymbol] = true
			symbols = append(symbols, tx.CoinSymbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// MemoryUserRepository guarda los usuarios en memoria
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.GenerateID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = models.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryUserRepository) First(_ context.Context) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.users) == 0 {
		return nil, ErrNotFound
	}
	first := r.users[0]
	return &first, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func paginate(txs []models.Transaction, limit, skip int) []models.Transaction {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(txs) {
		return nil
	}
	txs = txs[skip:]
	if limit > 0 && limit < len(txs) {
		txs = txs[:limit]
	}
	return txs
}
