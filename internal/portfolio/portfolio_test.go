package portfolio

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
)

func tx(symbol string, price, amount float64) models.Transaction {
	t := models.Transaction{CoinSymbol: symbol, BuyPrice: price, Amount: amount}
	t.Normalize()
	return t
}

func snapshot(prices map[string]float64) *models.MarketSnapshot {
	s := &models.MarketSnapshot{Quotes: models.Quotes{}}
	for symbol, price := range prices {
		s.Quotes[symbol] = models.Quote{Symbol: symbol, Price: price, PercentChange24h: 1.5}
	}
	return s
}

func TestComputeSummaryExamples(t *testing.T) {
	txs := []models.Transaction{tx("BTC", 10000, 1), tx("BTC", 20000, 1)}

	testCases := []struct {
		name     string
		snapshot *models.MarketSnapshot
		want     models.PortfolioSummary
	}{
		{
			name:     "With BTC price",
			snapshot: snapshot(map[string]float64{"BTC": 25000}),
			want: models.PortfolioSummary{
				TotalInvested:        "30000.00",
				CurrentValue:         "50000.00",
				ProfitLoss:           "20000.00",
				ProfitLossPercentage: "66.67",
				DistinctAssetCount:   1,
				TransactionCount:     2,
				Holdings:             map[string]float64{"BTC": 2},
			},
		},
		{
			name:     "Empty snapshot",
			snapshot: snapshot(nil),
			want: models.PortfolioSummary{
				TotalInvested:        "30000.00",
				CurrentValue:         "0.00",
				ProfitLoss:           "-30000.00",
				ProfitLossPercentage: "-100.00",
				DistinctAssetCount:   1,
				TransactionCount:     2,
				Holdings:             map[string]float64{"BTC": 2},
			},
		},
		{
			name:     "Nil snapshot",
			snapshot: nil,
			want: models.PortfolioSummary{
				TotalInvested:        "30000.00",
				CurrentValue:         "0.00",
				ProfitLoss:           "-30000.00",
				ProfitLossPercentage: "-100.00",
				DistinctAssetCount:   1,
				TransactionCount:     2,
				Holdings:             map[string]float64{"BTC": 2},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeSummary(txs, tc.snapshot)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ComputeSummary mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeSummaryNoTransactions(t *testing.T) {
	got := ComputeSummary(nil, snapshot(map[string]float64{"BTC": 25000}))
	want := models.PortfolioSummary{
		TotalInvested:        "0.00",
		CurrentValue:         "0.00",
		ProfitLoss:           "0.00",
		ProfitLossPercentage: "0.00",
		Holdings:             map[string]float64{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeSummary(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeSummaryPercentageZeroWhenNothingInvested(t *testing.T) {
	// BuyPrice 0 nunca llega desde la web, pero la función no debe dividir por cero.
	txs := []models.Transaction{tx("DOGE", 0, 100)}
	got := ComputeSummary(txs, snapshot(map[string]float64{"DOGE": 0.1}))
	if got.ProfitLossPercentage != "0.00" {
		t.Errorf("ProfitLossPercentage = %s, want 0.00", got.ProfitLossPercentage)
	}
	if got.CurrentValue != "10.00" {
		t.Errorf("CurrentValue = %s, want 10.00", got.CurrentValue)
	}
}

func TestComputeSummaryMissingSymbolStillCountsHoldings(t *testing.T) {
	txs := []models.Transaction{tx("BTC", 100, 1), tx("XYZ", 5, 10)}
	got := ComputeSummary(txs, snapshot(map[string]float64{"BTC": 200}))

	if got.CurrentValue != "200.00" {
		t.Errorf("CurrentValue = %s, want 200.00", got.CurrentValue)
	}
	if got.Holdings["XYZ"] != 10 {
		t.Errorf("Holdings[XYZ] = %v, want 10", got.Holdings["XYZ"])
	}
	if got.DistinctAssetCount != 2 {
		t.Errorf("DistinctAssetCount = %d, want 2", got.DistinctAssetCount)
	}
}

func randomTransactions(r *rand.Rand, n int) []models.Transaction {
	symbols := []string{"BTC", "ETH", "SOL", "ADA", "NOPRICE"}
	out := make([]models.Transaction, n)
	for i := range out {
		price := math.Round(r.Float64()*50000*100) / 100
		amount := math.Round(r.Float64()*10*1e6) / 1e6
		out[i] = tx(symbols[r.Intn(len(symbols))], price+0.01, amount+1e-6)
	}
	return out
}

var marketPrices = map[string]float64{"BTC": 61234.56, "ETH": 3012.34, "SOL": 145.67, "ADA": 0.4567}

func TestComputeSummaryPermutationInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	snap := snapshot(marketPrices)

	for round := 0; round < 20; round++ {
		txs := randomTransactions(r, 30)
		want := ComputeSummary(txs, snap)

		shuffled := append([]models.Transaction(nil), txs...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		if diff := cmp.Diff(want, ComputeSummary(shuffled, snap)); diff != "" {
			t.Fatalf("round %d: summary depends on order (-want +got):\n%s", round, diff)
		}
	}
}

func TestComputeSummaryEmptySnapshotLosesEverything(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 10; round++ {
		txs := randomTransactions(r, 1+r.Intn(20))
		got := ComputeSummary(txs, snapshot(nil))

		invested, _ := decimal.NewFromString(got.TotalInvested)
		if got.CurrentValue != "0.00" {
			t.Errorf("CurrentValue = %s, want 0.00", got.CurrentValue)
		}
		if got.ProfitLoss != Fixed2(invested.Neg()) {
			t.Errorf("ProfitLoss = %s, want -%s", got.ProfitLoss, got.TotalInvested)
		}
	}
}

func TestComputeSummarySumDecomposition(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	txs := randomTransactions(r, 40)

	exact := decimal.Zero
	for _, t := range txs {
		exact = exact.Add(decimal.NewFromFloat(t.BuyPrice).Mul(decimal.NewFromFloat(t.Amount)))
	}

	got := ComputeSummary(txs, nil)
	if got.TotalInvested != Fixed2(exact) {
		t.Errorf("TotalInvested = %s, want %s", got.TotalInvested, Fixed2(exact))
	}

	// Sumar dos particiones da el mismo total (antes de redondear).
	split := 17
	left := ComputeBreakdown(txs[:split], nil)
	right := ComputeBreakdown(txs[split:], nil)
	sum := decimal.Zero
	for _, e := range append(left, right...) {
		sum = sum.Add(decimal.NewFromFloat(e.TotalInvested))
	}
	if diff := sum.Sub(exact).Abs(); diff.GreaterThan(decimal.New(1, -6)) {
		t.Errorf("partial sums = %s, want %s", sum, exact)
	}
}

func TestComputeBreakdown(t *testing.T) {
	txs := []models.Transaction{
		tx("ETH", 2000, 2),
		tx("BTC", 10000, 1),
		tx("NOPE", 1, 5),
		tx("BTC", 20000, 1),
		tx("ZERO", 3, 1),
	}
	snap := snapshot(map[string]float64{"BTC": 25000, "ETH": 1500})

	got := ComputeBreakdown(txs, snap)
	want := []models.BreakdownEntry{
		{Symbol: "BTC", TotalAmount: 2, TotalInvested: 30000, CurrentValue: 50000, CurrentPrice: 25000, Change24h: 1.5, TransactionCount: 2, ProfitLoss: 20000, ProfitLossPercentage: 66.66666666666667},
		{Symbol: "ETH", TotalAmount: 2, TotalInvested: 4000, CurrentValue: 3000, CurrentPrice: 1500, Change24h: 1.5, TransactionCount: 1, ProfitLoss: -1000, ProfitLossPercentage: -25},
		{Symbol: "NOPE", TotalAmount: 5, TotalInvested: 5, TransactionCount: 1, ProfitLoss: -5, ProfitLossPercentage: -100},
		{Symbol: "ZERO", TotalAmount: 1, TotalInvested: 3, TransactionCount: 1, ProfitLoss: -3, ProfitLossPercentage: -100},
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("ComputeBreakdown mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeBreakdownSortedAndConsistentWithSummary(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	snap := snapshot(marketPrices)

	for round := 0; round < 10; round++ {
		txs := randomTransactions(r, 25)
		breakdown := ComputeBreakdown(txs, snap)
		summary := ComputeSummary(txs, snap)

		for i := 1; i < len(breakdown); i++ {
			if breakdown[i-1].CurrentValue < breakdown[i].CurrentValue {
				t.Fatalf("breakdown not sorted at %d: %v < %v", i, breakdown[i-1].CurrentValue, breakdown[i].CurrentValue)
			}
		}
		if len(breakdown) != summary.DistinctAssetCount {
			t.Fatalf("len(breakdown) = %d, want %d", len(breakdown), summary.DistinctAssetCount)
		}
		for _, e := range breakdown {
			if e.TotalAmount != summary.Holdings[e.Symbol] {
				t.Errorf("%s: breakdown amount %v != holdings %v", e.Symbol, e.TotalAmount, summary.Holdings[e.Symbol])
			}
		}
	}
}

func TestComputeAssetStats(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	txs := []models.Transaction{tx("ETH", 2000, 1), tx("BTC", 10000, 1), tx("BTC", 20000, 0.5)}
	txs[0].Timestamp = day(5)
	txs[1].Timestamp = day(3)
	txs[1].Fees = 10
	txs[2].Timestamp = day(1)
	txs[2].Fees = 2.5

	got := ComputeAssetStats(txs)
	want := []models.AssetStats{
		{Symbol: "BTC", TotalAmount: 1.5, TotalInvested: 20000, TotalFees: 12.5, TransactionCount: 2, AvgBuyPrice: 15000, FirstPurchase: day(1), LastPurchase: day(3)},
		{Symbol: "ETH", TotalAmount: 1, TotalInvested: 2000, TransactionCount: 1, AvgBuyPrice: 2000, FirstPurchase: day(5), LastPurchase: day(5)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeAssetStats mismatch (-want +got):\n%s", diff)
	}
}
