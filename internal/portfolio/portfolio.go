// Package portfolio calcula el resumen y el detalle del portafolio a partir de
// las transacciones y de un snapshot del mercado. Todas las funciones son puras.
package portfolio

import (
	"sort"

	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeSummary arma el resumen del portafolio. Los tickers sin cotización
// aportan cero al valor actual pero su cantidad se sigue contando.
func ComputeSummary(transactions []models.Transaction, snapshot *models.MarketSnapshot) models.PortfolioSummary {
	totalInvested := decimal.Zero
	currentValue := decimal.Zero
	holdings := make(map[string]decimal.Decimal)

	for _, tx := range transactions {
		amount := decimal.NewFromFloat(tx.Amount)
		totalInvested = totalInvested.Add(decimal.NewFromFloat(tx.BuyPrice).Mul(amount))
		holdings[tx.CoinSymbol] = holdings[tx.CoinSymbol].Add(amount)

		if quote, ok := snapshot.Quote(tx.CoinSymbol); ok {
			currentValue = currentValue.Add(amount.Mul(decimal.NewFromFloat(quote.Price)))
		}
	}

	profitLoss := currentValue.Sub(totalInvested)

	out := models.PortfolioSummary{
		TotalInvested:        Fixed2(totalInvested),
		CurrentValue:         Fixed2(currentValue),
		ProfitLoss:           Fixed2(profitLoss),
		ProfitLossPercentage: Fixed2(percentage(profitLoss, totalInvested)),
		DistinctAssetCount:   len(holdings),
		TransactionCount:     len(transactions),
		Holdings:             make(map[string]float64, len(holdings)),
	}
	for symbol, amount := range holdings {
		out.Holdings[symbol] = amount.InexactFloat64()
	}
	return out
}

type group struct {
	symbol   string
	amount   decimal.Decimal
	invested decimal.Decimal
	count    int
}

// ComputeBreakdown agrupa por ticker y ordena de mayor a menor valor actual.
// Los empates conservan el orden de aparición en la entrada.
func ComputeBreakdown(transactions []models.Transaction, snapshot *models.MarketSnapshot) []models.BreakdownEntry {
	index := make(map[string]int)
	var groups []*group

	for _, tx := range transactions {
		i, ok := index[tx.CoinSymbol]
		if !ok {
			i = len(groups)
			index[tx.CoinSymbol] = i
			groups = append(groups, &group{symbol: tx.CoinSymbol})
		}
		g := groups[i]
		amount := decimal.NewFromFloat(tx.Amount)
		g.amount = g.amount.Add(amount)
		g.invested = g.invested.Add(decimal.NewFromFloat(tx.BuyPrice).Mul(amount))
		g.count++
	}

	breakdown := make([]models.BreakdownEntry, 0, len(groups))
	for _, g := range groups {
		quote, _ := snapshot.Quote(g.symbol)
		price := decimal.NewFromFloat(quote.Price)
		currentValue := g.amount.Mul(price)
		profitLoss := currentValue.Sub(g.invested)

		breakdown = append(breakdown, models.BreakdownEntry{
			Symbol:               g.symbol,
			TotalAmount:          g.amount.InexactFloat64(),
			TotalInvested:        g.invested.InexactFloat64(),
			CurrentValue:         currentValue.InexactFloat64(),
			CurrentPrice:         quote.Price,
			Change24h:            quote.PercentChange24h,
			TransactionCount:     g.count,
			ProfitLoss:           profitLoss.InexactFloat64(),
			ProfitLossPercentage: percentage(profitLoss, g.invested).InexactFloat64(),
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].CurrentValue > breakdown[j].CurrentValue
	})
	return breakdown
}

// ComputeAssetStats resume el historial por ticker (cantidades, invertido,
// comisiones, precio promedio y fechas), ordenado por monto invertido.
func ComputeAssetStats(transactions []models.Transaction) []models.AssetStats {
	index := make(map[string]int)
	var stats []models.AssetStats
	priceSums := make(map[string]decimal.Decimal)

	for _, tx := range transactions {
		i, ok := index[tx.CoinSymbol]
		if !ok {
			i = len(stats)
			index[tx.CoinSymbol] = i
			stats = append(stats, models.AssetStats{
				Symbol:        tx.CoinSymbol,
				FirstPurchase: tx.Timestamp,
				LastPurchase:  tx.Timestamp,
			})
		}
		s := &stats[i]
		s.TotalAmount = decimal.NewFromFloat(s.TotalAmount).Add(decimal.NewFromFloat(tx.Amount)).InexactFloat64()
		s.TotalInvested = decimal.NewFromFloat(s.TotalInvested).Add(decimal.NewFromFloat(tx.TotalValue)).InexactFloat64()
		s.TotalFees = decimal.NewFromFloat(s.TotalFees).Add(decimal.NewFromFloat(tx.Fees)).InexactFloat64()
		s.TransactionCount++
		priceSums[tx.CoinSymbol] = priceSums[tx.CoinSymbol].Add(decimal.NewFromFloat(tx.BuyPrice))

		if tx.Timestamp.Before(s.FirstPurchase) {
			s.FirstPurchase = tx.Timestamp
		}
		if tx.Timestamp.After(s.LastPurchase) {
			s.LastPurchase = tx.Timestamp
		}
	}

	for i := range stats {
		s := &stats[i]
		s.AvgBuyPrice = priceSums[s.Symbol].Div(decimal.NewFromInt(int64(s.TransactionCount))).InexactFloat64()
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalInvested > stats[j].TotalInvested
	})
	return stats
}

// percentage devuelve part/total*100, o cero si total no es positivo
func percentage(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}
