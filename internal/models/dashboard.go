package models

// TransactionForm es el formulario de alta de transacción. Los números llegan
// como texto y se validan en el servicio.
type TransactionForm struct {
	CoinSymbol      string `form:"coinSymbol" json:"coinSymbol"`
	BuyPrice        string `form:"buyPrice" json:"buyPrice"`
	Amount          string `form:"amount" json:"amount"`
	CoinName        string `form:"coinName" json:"coinName"`
	Fees            string `form:"fees" json:"fees"`
	Exchange        string `form:"exchange" json:"exchange"`
	Notes           string `form:"notes" json:"notes"`
	TransactionHash string `form:"transactionHash" json:"transactionHash"`
}

// Dashboard es todo lo que muestra la página principal. Summary y Breakdown
// se calculan con el mismo Snapshot.
type Dashboard struct {
	Summary      PortfolioSummary `json:"summary"`
	Breakdown    []BreakdownEntry `json:"breakdown"`
	Transactions []Transaction    `json:"transactions"` // De la más nueva a la más antigua
	Snapshot     *MarketSnapshot  `json:"-"`
}

// PortfolioResponse es la respuesta de /api/portfolio
type PortfolioResponse struct {
	Summary       PortfolioSummary `json:"summary"`
	Breakdown     []BreakdownEntry `json:"breakdown"`
	MarketData    Quotes           `json:"marketData"`
	GlobalMetrics *GlobalMetrics   `json:"globalMetrics"`
}
