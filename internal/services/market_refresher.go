package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AgusMolinaCode/crypto-ledger/internal/logger"
	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
)

// SymbolSource devuelve los tickers que hay que cotizar
type SymbolSource interface {
	DistinctSymbols(ctx context.Context) ([]string, error)
}

// MarketRefresher mantiene el snapshot del mercado y lo actualiza periódicamente
type MarketRefresher struct {
	provider     MarketDataProvider
	symbols      SymbolSource
	interval     time.Duration
	initialDelay time.Duration

	snapshot  atomic.Pointer[models.MarketSnapshot]
	refreshMu sync.Mutex // Una sola actualización a la vez

	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
	mutex     sync.Mutex
}

// NewMarketRefresher crea el servicio con un snapshot vacío
func NewMarketRefresher(provider MarketDataProvider, symbols SymbolSource, interval, initialDelay time.Duration) *MarketRefresher {
	r := &MarketRefresher{
		provider:     provider,
		symbols:      symbols,
		interval:     interval,
		initialDelay: initialDelay,
	}
	r.snapshot.Store(&models.MarketSnapshot{Quotes: models.Quotes{}})
	return r
}

// Snapshot devuelve el snapshot vigente. No se debe modificar.
func (r *MarketRefresher) Snapshot() *models.MarketSnapshot {
	return r.snapshot.Load()
}

// LastUpdated es la última vez que se reemplazaron las cotizaciones
func (r *MarketRefresher) LastUpdated() time.Time {
	return r.Snapshot().UpdatedAt
}

// Refresh vuelve a pedir las cotizaciones de todos los tickers registrados.
// Nunca falla: si el proveedor o el almacenamiento fallan se conserva el snapshot anterior.
func (r *MarketRefresher) Refresh(ctx context.Context) {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	symbols, err := r.symbols.DistinctSymbols(ctx)
	if err != nil {
		logger.L.Error("Error al obtener los tickers registrados", "error", err)
		return
	}

	prev := r.Snapshot()
	next := prev.Clone()
	changed := false

	if len(symbols) == 0 {
		next.Quotes = models.Quotes{}
		next.UpdatedAt = time.Now().UTC()
		changed = true
	} else if quotes, err := r.provider.FetchQuotes(ctx, symbols); err != nil {
		logger.L.Warn("Error al actualizar cotizaciones, se conserva el snapshot anterior", "symbols", len(symbols), "error", err)
	} else {
		next.Quotes = quotes
		next.UpdatedAt = time.Now().UTC()
		changed = true
	}

	if global, err := r.provider.FetchGlobalMetrics(ctx); err != nil {
		logger.L.Warn("Error al actualizar métricas globales", "error", err)
	} else {
		next.Global = global
		changed = true
	}

	if !changed {
		return
	}
	r.snapshot.Store(next)
	logger.L.Info("Snapshot de mercado actualizado", "symbols", len(symbols), "quotes", len(next.Quotes))
}

// Start lanza la actualización periódica: la primera tras initialDelay y
// luego cada interval.
func (r *MarketRefresher) Start() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.isRunning {
		return
	}

	r.isRunning = true
	r.stopChan = make(chan struct{})
	r.done = make(chan struct{})
	stop, done := r.stopChan, r.done

	go func() {
		defer close(done)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-stop:
				cancel()
			case <-ctx.Done():
			}
		}()

		delay := time.NewTimer(r.initialDelay)
		defer delay.Stop()
		select {
		case <-delay.C:
			r.Refresh(ctx)
		case <-stop:
			return
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.Refresh(ctx)
			case <-stop:
				return
			}
		}
	}()

	logger.L.Info("Servicio de actualización de mercado iniciado", "interval", r.interval.String(), "initial_delay", r.initialDelay.String())
}

// Stop detiene la actualización periódica y espera a que termine la vuelta en curso
func (r *MarketRefresher) Stop() {
	r.mutex.Lock()
	if !r.isRunning {
		r.mutex.Unlock()
		return
	}
	r.isRunning = false
	close(r.stopChan)
	done := r.done
	r.mutex.Unlock()

	<-done
	logger.L.Info("Servicio de actualización de mercado detenido")
}
