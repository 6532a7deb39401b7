package models

import "time"

// PortfolioSummary es el resumen del portafolio de un usuario. Los montos se
// expresan con dos decimales.
type PortfolioSummary struct {
	TotalInvested        string             `json:"totalInvested"`
	CurrentValue         string             `json:"currentValue"`
	ProfitLoss           string             `json:"profitLoss"`
	ProfitLossPercentage string             `json:"profitLossPercentage"`
	DistinctAssetCount   int                `json:"distinctAssetCount"`
	TransactionCount     int                `json:"transactionCount"`
	Holdings             map[string]float64 `json:"holdings"` // Cantidad total por ticker
}

// BreakdownEntry es el detalle del portafolio para un ticker
type BreakdownEntry struct {
	Symbol               string  `json:"symbol"`
	TotalAmount          float64 `json:"totalAmount"`
	TotalInvested        float64 `json:"totalInvested"`
	CurrentValue         float64 `json:"currentValue"`
	CurrentPrice         float64 `json:"currentPrice"`
	Change24h            float64 `json:"change24h"`
	TransactionCount     int     `json:"transactionCount"`
	ProfitLoss           float64 `json:"profitLoss"`
	ProfitLossPercentage float64 `json:"profitLossPercentage"`
}

// AssetStats agrupa estadísticas históricas por ticker, sin precios de mercado
type AssetStats struct {
	Symbol           string    `json:"symbol"`
	TotalAmount      float64   `json:"totalAmount"`
	TotalInvested    float64   `json:"totalInvested"`
	TotalFees        float64   `json:"totalFees"`
	TransactionCount int       `json:"transactionCount"`
	AvgBuyPrice      float64   `json:"avgBuyPrice"`
	FirstPurchase    time.Time `json:"firstPurchase"`
	LastPurchase     time.Time `json:"lastPurchase"`
}
