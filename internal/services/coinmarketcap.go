package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AgusMolinaCode/crypto-ledger/internal/logger"
	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
	"github.com/PaesslerAG/jsonpath"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// MarketDataProvider obtiene cotizaciones y métricas globales de un proveedor externo
type MarketDataProvider interface {
	FetchQuotes(ctx context.Context, symbols []string) (models.Quotes, error)
	FetchGlobalMetrics(ctx context.Context) (*models.GlobalMetrics, error)
}

// ErrMissingAPIKey se devuelve cuando no hay clave configurada para el proveedor
var ErrMissingAPIKey = errors.New("COINMARKETCAP_API_KEY no configurada")

// CoinMarketCapClient consulta la API de CoinMarketCap en USD
type CoinMarketCapClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	quoteCache *cache.Cache
}

// NewCoinMarketCapClient crea el cliente. cacheTTL es lo que dura una
// cotización individual pedida desde /api/market/:symbol.
func NewCoinMarketCapClient(apiKey, baseURL string, cacheTTL time.Duration) *CoinMarketCapClient {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &CoinMarketCapClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// El plan básico permite 30 llamadas por minuto
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 5),
		quoteCache: cache.New(cacheTTL, 2*cacheTTL),
	}
}

type cmcStatus struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type cmcUSDQuote struct {
	Price            float64 `json:"price"`
	PercentChange24h float64 `json:"percent_change_24h"`
	MarketCap        float64 `json:"market_cap"`
	Volume24h        float64 `json:"volume_24h"`
	LastUpdated      string  `json:"last_updated"`
}

type cmcCoin struct {
	Name   string                 `json:"name"`
	Symbol string                 `json:"symbol"`
	Quote  map[string]cmcUSDQuote `json:"quote"`
}

type cmcQuotesResponse struct {
	Status cmcStatus          `json:"status"`
	Data   map[string]cmcCoin `json:"data"`
}

// FetchQuotes pide en una sola llamada las cotizaciones de todos los tickers.
// Los tickers que el proveedor no conoce simplemente no aparecen en el resultado.
func (c *CoinMarketCapClient) FetchQuotes(ctx context.Context, symbols []string) (models.Quotes, error) {
	normalized := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = models.NormalizeSymbol(s); s != "" {
			normalized = append(normalized, s)
		}
	}
	if len(normalized) == 0 {
		return models.Quotes{}, nil
	}

	params := url.Values{}
	params.Set("symbol", strings.Join(normalized, ","))
	params.Set("convert", "USD")

	body, err := c.get(ctx, "/cryptocurrency/quotes/latest", params)
	if err != nil {
		return nil, err
	}

	var result cmcQuotesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error decodificando cotizaciones: %w", err)
	}

	quotes := make(models.Quotes, len(result.Data))
	for key, coin := range result.Data {
		usd, ok := coin.Quote["USD"]
		if !ok {
			continue
		}
		symbol := models.NormalizeSymbol(key)
		quote := models.Quote{
			Symbol:           symbol,
			Name:             coin.Name,
			Price:            usd.Price,
			PercentChange24h: usd.PercentChange24h,
			MarketCap:        usd.MarketCap,
			Volume24h:        usd.Volume24h,
			LastUpdated:      parseTime(usd.LastUpdated),
		}
		quotes[symbol] = quote
		c.quoteCache.SetDefault(symbol, quote)
	}
	return quotes, nil
}

// Quote devuelve la cotización de un ticker usando la caché. Cualquier falla
// del proveedor se registra y se informa como "sin datos".
func (c *CoinMarketCapClient) Quote(ctx context.Context, symbol string) (models.Quote, bool) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return models.Quote{}, false
	}
	if cached, found := c.quoteCache.Get(symbol); found {
		return cached.(models.Quote), true
	}

	quotes, err := c.FetchQuotes(ctx, []string{symbol})
	if err != nil {
		logger.L.Warn("Error al obtener cotización", "symbol", symbol, "error", err)
		return models.Quote{}, false
	}
	q, ok := quotes[symbol]
	return q, ok
}

// FetchGlobalMetrics obtiene la capitalización total y la dominancia de BTC/ETH
func (c *CoinMarketCapClient) FetchGlobalMetrics(ctx context.Context) (*models.GlobalMetrics, error) {
	body, err := c.get(ctx, "/global-metrics/quotes/latest", url.Values{"convert": {"USD"}})
	if err != nil {
		return nil, err
	}

	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return nil, fmt.Errorf("error decodificando métricas globales: %w", err)
	}

	active, err := jsonFloat(jobj, "$.data.active_cryptocurrencies")
	if err != nil {
		return nil, err
	}
	metrics := &models.GlobalMetrics{ActiveCryptocurrencies: int(active)}

	fields := []struct {
		path string
		dst  *float64
	}{
		{"$.data.btc_dominance", &metrics.BTCDominance},
		{"$.data.eth_dominance", &metrics.ETHDominance},
		{"$.data.quote.USD.total_market_cap", &metrics.TotalMarketCap},
		{"$.data.quote.USD.total_volume_24h", &metrics.TotalVolume24h},
	}
	for _, f := range fields {
		if *f.dst, err = jsonFloat(jobj, f.path); err != nil {
			return nil, err
		}
	}
	if last, err := jsonpath.Get("$.data.last_updated", jobj); err == nil {
		if s, ok := last.(string); ok {
			metrics.LastUpdated = parseTime(s)
		}
	}
	return metrics, nil
}

func (c *CoinMarketCapClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error en la petición HTTP: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error leyendo respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Status cmcStatus `json:"status"`
		}
		if json.Unmarshal(body, &failure) == nil && failure.Status.ErrorMessage != "" {
			return nil, fmt.Errorf("coinmarketcap respondió %d: %s", resp.StatusCode, failure.Status.ErrorMessage)
		}
		return nil, fmt.Errorf("coinmarketcap respondió %d", resp.StatusCode)
	}
	return body, nil
}

// jsonFloat extrae un número con jsonpath; ausente o de otro tipo es un error
func jsonFloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error leyendo %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case float64:
		return v, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("error leyendo %q: no es un número (%v)", path, jval)
	}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
