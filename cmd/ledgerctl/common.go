package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AgusMolinaCode/crypto-ledger/internal/config"
	"github.com/AgusMolinaCode/crypto-ledger/internal/logger"
	"github.com/AgusMolinaCode/crypto-ledger/internal/repository"
	"github.com/AgusMolinaCode/crypto-ledger/internal/services"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

var commands = []subcommands.Command{
	&addCmd{},
	&listCmd{},
	&summaryCmd{},
	&refreshCmd{},
}

// session es el libro abierto con la misma configuración que el servidor
type session struct {
	store  *repository.Store
	market *services.MarketRefresher
	ledger *services.LedgerService
}

func openSession(ctx context.Context) (*session, error) {
	cfg := config.Load()
	logger.InitWithWriter(cfg.LogLevel, os.Stderr)

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := services.NewCoinMarketCapClient(cfg.CMCAPIKey, cfg.CMCBaseURL, cfg.QuoteCacheTTL)
	market := services.NewMarketRefresher(client, store.Transactions, cfg.MarketRefreshInterval, cfg.MarketInitialDelay)
	ledger := services.NewLedgerService(store, market, client)
	if err := ledger.Bootstrap(ctx); err != nil {
		store.Close(ctx)
		return nil, err
	}
	return &session{store: store, market: market, ledger: ledger}, nil
}

func (s *session) Close(ctx context.Context) {
	if err := s.store.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
