package portfolio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
)

// SummaryMarkdown arma el reporte del portafolio en markdown
func SummaryMarkdown(summary models.PortfolioSummary, breakdown []models.BreakdownEntry, snapshot *models.MarketSnapshot) string {
	var b strings.Builder

	b.WriteString("# Portafolio\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Invertido | %s |\n", FormatUSD(summary.TotalInvested))
	fmt.Fprintf(&b, "| Valor actual | %s |\n", FormatUSD(summary.CurrentValue))
	fmt.Fprintf(&b, "| Ganancia / pérdida | %s (%s%%) |\n", FormatUSD(summary.ProfitLoss), summary.ProfitLossPercentage)
	fmt.Fprintf(&b, "| Activos | %d |\n", summary.DistinctAssetCount)
	fmt.Fprintf(&b, "| Transacciones | %d |\n\n", summary.TransactionCount)

	if len(breakdown) > 0 {
		b.WriteString("## Detalle por activo\n\n")
		b.WriteString("| Ticker | Cantidad | Invertido | Precio | 24h | Valor actual | G/P |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
		for _, e := range breakdown {
			fmt.Fprintf(&b, "| %s | %g | %s | %s | %s | %s | %s |\n",
				e.Symbol, e.TotalAmount, FormatUSD(e.TotalInvested), FormatUSD(e.CurrentPrice),
				FormatPercent(e.Change24h), FormatUSD(e.CurrentValue), FormatPercent(e.ProfitLossPercentage))
		}
		b.WriteString("\n")
	}

	if snapshot != nil && snapshot.Global != nil {
		g := snapshot.Global
		b.WriteString("## Mercado\n\n")
		fmt.Fprintf(&b, "Capitalización total %s, volumen 24h %s, dominancia BTC %.2f%% y ETH %.2f%%.\n",
			FormatUSD(g.TotalMarketCap), FormatUSD(g.TotalVolume24h), g.BTCDominance, g.ETHDominance)
	}
	return b.String()
}

// TransactionsMarkdown lista las transacciones en una tabla
func TransactionsMarkdown(transactions []models.Transaction) string {
	if len(transactions) == 0 {
		return "_No hay transacciones._\n"
	}

	var b strings.Builder
	b.WriteString("| Fecha | ID | Ticker | Precio | Cantidad | Total | Verificada |\n")
	b.WriteString("|---|---|---|---:|---:|---:|:---:|\n")
	for _, tx := range transactions {
		verified := ""
		if tx.Verified {
			verified = "✔"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %g | %s | %s |\n",
			tx.Timestamp.Format("2006-01-02 15:04"), tx.ID, tx.CoinSymbol,
			FormatUSD(tx.BuyPrice), tx.Amount, FormatUSD(tx.TotalValue), verified)
	}
	return b.String()
}

// QuotesMarkdown lista las cotizaciones ordenadas por ticker
func QuotesMarkdown(quotes models.Quotes) string {
	if len(quotes) == 0 {
		return "_Sin cotizaciones._\n"
	}

	symbols := make([]string, 0, len(quotes))
	for s := range quotes {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var b strings.Builder
	b.WriteString("| Ticker | Nombre | Precio | 24h |\n|---|---|---:|---:|\n")
	for _, s := range symbols {
		q := quotes[s]
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", s, q.Name, FormatUSD(q.Price), FormatPercent(q.PercentChange24h))
	}
	return b.String()
}
