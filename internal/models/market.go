package models

import "time"

// Quote es la cotización actual de una criptomoneda
type Quote struct {
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name,omitempty"`
	Price            float64   `json:"price"`
	PercentChange24h float64   `json:"percent_change_24h"`
	MarketCap        float64   `json:"market_cap,omitempty"`
	Volume24h        float64   `json:"volume_24h,omitempty"`
	LastUpdated      time.Time `json:"last_updated,omitempty"`
}

// Quotes indexa cotizaciones por ticker
type Quotes map[string]Quote

// GlobalMetrics son las métricas globales del mercado cripto
type GlobalMetrics struct {
	ActiveCryptocurrencies int       `json:"active_cryptocurrencies"`
	BTCDominance           float64   `json:"btc_dominance"`
	ETHDominance           float64   `json:"eth_dominance"`
	TotalMarketCap         float64   `json:"total_market_cap"`
	TotalVolume24h         float64   `json:"total_volume_24h"`
	LastUpdated            time.Time `json:"last_updated,omitempty"`
}

// MarketSnapshot es una foto inmutable del mercado. Nunca se modifica una vez
// publicada: cada actualización construye una nueva y la reemplaza entera.
type MarketSnapshot struct {
	Quotes    Quotes         `json:"quotes"`
	Global    *GlobalMetrics `json:"global,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Quote devuelve la cotización del ticker; un snapshot nil o sin el ticker
// devuelve precio y variación en cero.
func (s *MarketSnapshot) Quote(symbol string) (Quote, bool) {
	if s == nil {
		return Quote{}, false
	}
	q, ok := s.Quotes[symbol]
	return q, ok
}

// Clone devuelve una copia independiente del snapshot
func (s *MarketSnapshot) Clone() *MarketSnapshot {
	if s == nil {
		return &MarketSnapshot{Quotes: Quotes{}}
	}
	quotes := make(Quotes, len(s.Quotes))
	for k, v := range s.Quotes {
		quotes[k] = v
	}
	out := &MarketSnapshot{Quotes: quotes, UpdatedAt: s.UpdatedAt}
	if s.Global != nil {
		g := *s.Global
		out.Global = &g
	}
	return out
}
