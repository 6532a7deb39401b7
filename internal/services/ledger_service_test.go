package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
	"github.com/AgusMolinaCode/crypto-ledger/internal/repository"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/crypto/bcrypt"
)

func newTestLedger(t *testing.T, provider *stubProvider) (*LedgerService, *repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	market := NewMarketRefresher(provider, store.Transactions, time.Hour, 0)
	svc := NewLedgerService(store, market, nil)
	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return svc, store
}

func TestParseTransactionForm(t *testing.T) {
	tests := []struct {
		name     string
		form     models.TransactionForm
		wantCode string
		want     *models.Transaction
	}{
		{
			name: "valid",
			form: models.TransactionForm{CoinSymbol: " btc ", BuyPrice: "10000", Amount: "0.5", Fees: "2.5", Exchange: " Binance "},
			want: &models.Transaction{CoinSymbol: "BTC", TransactionType: "buy", BuyPrice: 10000, Amount: 0.5, TotalValue: 5000, Fees: 2.5, Exchange: "Binance"},
		},
		{name: "missing symbol", form: models.TransactionForm{BuyPrice: "1", Amount: "1"}, wantCode: ErrCodeMissingFields},
		{name: "blank symbol", form: models.TransactionForm{CoinSymbol: "  ", BuyPrice: "1", Amount: "1"}, wantCode: ErrCodeMissingFields},
		{name: "missing price", form: models.TransactionForm{CoinSymbol: "BTC", Amount: "1"}, wantCode: ErrCodeMissingFields},
		{name: "missing amount", form: models.TransactionForm{CoinSymbol: "BTC", BuyPrice: "1"}, wantCode: ErrCodeMissingFields},
		{name: "zero amount", form: models.TransactionForm{CoinSymbol: "BTC", BuyPrice: "1", Amount: "0"}, wantCode: ErrCodeInvalidValues},
		{name: "zero price", form: models.TransactionForm{CoinSymbol: "BTC", BuyPrice: "0", Amount: "1"}, wantCode: ErrCodeInvalidValues},
		{name: "negative price", form: models.TransactionForm{CoinSymbol: "BTC", BuyPrice: "-5", Amount: "1"}, wantCode: ErrCodeInvalidValues},
		{name: "not a number", form: models.TransactionForm{CoinSymbol: "BTC", BuyPrice: "abc", Amount: "1"}, wantCode: ErrCodeInvalidValues},
		{name: "NaN", form: models.TransactionForm{CoinSymbol: "BTC", BuyPrice: "NaN", Amount: "1"}, wantCode: ErrCodeInvalidValues},
		{name: "infinite", form: models.TransactionForm{CoinSymbol: "BTC", BuyPrice: "1", Amount: "+Inf"}, wantCode: ErrCodeInvalidValues},
		{name: "negative fees", form: models.TransactionForm{CoinSymbol: "BTC", BuyPrice: "1", Amount: "1", Fees: "-1"}, wantCode: ErrCodeInvalidValues},
		{name: "bad fees", form: models.TransactionForm{CoinSymbol: "BTC", BuyPrice: "1", Amount: "1", Fees: "free"}, wantCode: ErrCodeInvalidValues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTransactionForm(tt.form)
			if tt.wantCode != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Code != tt.wantCode {
					t.Fatalf("err = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTransactionFormTruncatesNotes(t *testing.T) {
	got, err := ParseTransactionForm(models.TransactionForm{
		CoinSymbol: "BTC", BuyPrice: "1", Amount: "1",
		Notes: strings.Repeat("ñ", models.MaxNotesLength+20),
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := len([]rune(got.Notes)); n != models.MaxNotesLength {
		t.Errorf("notes length = %d, want %d", n, models.MaxNotesLength)
	}
}

func TestBootstrapCreatesDefaultUserOnce(t *testing.T) {
	svc, store := newTestLedger(t, &stubProvider{})
	ctx := context.Background()

	user, err := store.Users.First(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != DefaultUsername || user.Email != DefaultEmail || user.ID != svc.OwnerID() {
		t.Errorf("default user = %+v", user)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(defaultPassword)) != nil {
		t.Error("password is not a bcrypt hash of the default password")
	}

	again, err := EnsureDefaultUser(ctx, store.Users)
	if err != nil || again.ID != user.ID {
		t.Errorf("EnsureDefaultUser created a second user: %+v, %v", again, err)
	}
}

func TestAddTransactionRefreshesMarket(t *testing.T) {
	provider := &stubProvider{
		quotes: models.Quotes{"BTC": {Symbol: "BTC", Price: 25000, PercentChange24h: 3}},
		global: &models.GlobalMetrics{},
	}
	svc, _ := newTestLedger(t, provider)
	ctx := context.Background()

	for _, price := range []string{"10000", "20000"} {
		if _, err := svc.AddTransaction(ctx, models.TransactionForm{CoinSymbol: "btc", BuyPrice: price, Amount: "1"}); err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}
	if provider.calls() != 2 {
		t.Errorf("market refreshed %d times, want 2", provider.calls())
	}

	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := models.PortfolioSummary{
		TotalInvested:        "30000.00",
		CurrentValue:         "50000.00",
		ProfitLoss:           "20000.00",
		ProfitLossPercentage: "66.67",
		DistinctAssetCount:   1,
		TransactionCount:     2,
		Holdings:             map[string]float64{"BTC": 2},
	}
	if diff := cmp.Diff(want, dash.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if len(dash.Breakdown) != 1 || dash.Breakdown[0].Change24h != 3 {
		t.Errorf("breakdown = %+v", dash.Breakdown)
	}
	if len(dash.Transactions) != 2 || dash.Transactions[0].BuyPrice != 20000 {
		t.Errorf("transactions should be newest first: %+v", dash.Transactions)
	}

	resp, err := svc.Portfolio(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if resp.MarketData["BTC"].Price != 25000 || resp.GlobalMetrics == nil {
		t.Errorf("portfolio response = %+v", resp)
	}
}

func TestAddTransactionRejectsInvalidForm(t *testing.T) {
	provider := &stubProvider{}
	svc, store := newTestLedger(t, provider)
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, models.TransactionForm{CoinSymbol: "BTC", BuyPrice: "0", Amount: "1"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Code != ErrCodeInvalidValues {
		t.Fatalf("err = %v, want invalid-values", err)
	}
	txs, _ := store.Transactions.FindByOwner(ctx, svc.OwnerID())
	if len(txs) != 0 || provider.calls() != 0 {
		t.Error("a rejected form must not be stored nor refresh the market")
	}
}

func TestToggleAndDelete(t *testing.T) {
	svc, store := newTestLedger(t, &stubProvider{global: &models.GlobalMetrics{}})
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, models.TransactionForm{CoinSymbol: "ETH", BuyPrice: "2000", Amount: "1"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ToggleVerified(ctx, tx.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Transactions.FindByID(ctx, tx.ID)
	if !got.Verified {
		t.Error("transaction should be verified")
	}
	if err := svc.ToggleVerified(ctx, "missing"); err != nil {
		t.Errorf("ToggleVerified(missing) = %v, want nil", err)
	}

	if err := svc.DeleteTransaction(ctx, "missing"); err != nil {
		t.Errorf("DeleteTransaction(missing) = %v, want nil", err)
	}
	txs, _ := store.Transactions.FindByOwner(ctx, svc.OwnerID())
	if len(txs) != 1 {
		t.Fatalf("deleting a missing id changed the set: %d transactions", len(txs))
	}

	if err := svc.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatal(err)
	}
	txs, _ = store.Transactions.FindByOwner(ctx, svc.OwnerID())
	if len(txs) != 0 {
		t.Errorf("transaction not deleted: %+v", txs)
	}
}

func TestHistoryAndAssetStatsAreNeverNil(t *testing.T) {
	svc, _ := newTestLedger(t, &stubProvider{})
	ctx := context.Background()

	history, err := svc.History(ctx, 50, 0)
	if err != nil || history == nil {
		t.Errorf("History = %v, %v", history, err)
	}
	stats, err := svc.AssetStats(ctx)
	if err != nil || stats == nil {
		t.Errorf("AssetStats = %v, %v", stats, err)
	}
}

type stubQuotes map[string]models.Quote

func (s stubQuotes) Quote(_ context.Context, symbol string) (models.Quote, bool) {
	q, ok := s[symbol]
	return q, ok
}

func TestQuotePrefersSnapshot(t *testing.T) {
	provider := &stubProvider{quotes: models.Quotes{"BTC": {Symbol: "BTC", Price: 25000}}, global: &models.GlobalMetrics{}}
	store := repository.NewMemoryStore()
	market := NewMarketRefresher(provider, staticSymbols{symbols: []string{"BTC"}}, time.Hour, 0)
	market.Refresh(context.Background())
	svc := NewLedgerService(store, market, stubQuotes{"SOL": {Symbol: "SOL", Price: 100}})

	if q, ok := svc.Quote(context.Background(), "btc"); !ok || q.Price != 25000 {
		t.Errorf("Quote(btc) = %+v, %v", q, ok)
	}
	if q, ok := svc.Quote(context.Background(), "sol"); !ok || q.Price != 100 {
		t.Errorf("Quote(sol) = %+v, %v", q, ok)
	}
	if _, ok := svc.Quote(context.Background(), "nope"); ok {
		t.Error("Quote(nope) should be unavailable")
	}
}
