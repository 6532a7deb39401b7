package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
	"github.com/AgusMolinaCode/crypto-ledger/internal/portfolio"
	"github.com/AgusMolinaCode/crypto-ledger/internal/services"
	"github.com/google/subcommands"
)

type addCmd struct {
	form models.TransactionForm
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "register a buy transaction" }
func (*addCmd) Usage() string {
	return `ledgerctl add -s <symbol> -p <price> -a <amount> [-fees n] [-exchange name] [-notes text]

  Registers a buy transaction for the default user and refreshes market data.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.form.CoinSymbol, "s", "", "coin symbol (BTC, ETH, ...)")
	f.StringVar(&c.form.BuyPrice, "p", "", "buy price in USD")
	f.StringVar(&c.form.Amount, "a", "", "amount bought")
	f.StringVar(&c.form.CoinName, "name", "", "coin name")
	f.StringVar(&c.form.Fees, "fees", "", "fees paid in USD")
	f.StringVar(&c.form.Exchange, "exchange", "", "exchange where it was bought")
	f.StringVar(&c.form.Notes, "notes", "", "free notes")
	f.StringVar(&c.form.TransactionHash, "hash", "", "on-chain transaction hash")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close(ctx)

	tx, err := s.ledger.AddTransaction(ctx, c.form)
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(os.Stderr, "Error: %s (%s)\n", verr.Code, verr.Field)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s %s %g @ %s\n", tx.ID, tx.CoinSymbol, tx.Amount, portfolio.FormatUSD(tx.BuyPrice))
	return subcommands.ExitSuccess
}

type listCmd struct {
	limit int
	skip  int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list transactions, newest first" }
func (*listCmd) Usage() string {
	return `ledgerctl list [-n limit] [-skip n]

  Lists the default user's transactions, newest first.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 50, "maximum number of transactions (0 for all)")
	f.IntVar(&c.skip, "skip", 0, "transactions to skip")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close(ctx)

	transactions, err := s.ledger.History(ctx, c.limit, c.skip)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(portfolio.TransactionsMarkdown(transactions))
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	offline bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio summary and breakdown" }
func (*summaryCmd) Usage() string {
	return `ledgerctl summary [-offline]

  Fetches current prices and displays the portfolio summary and per-asset breakdown.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.offline, "offline", false, "do not fetch market data")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close(ctx)

	if !c.offline {
		s.market.Refresh(ctx)
	}
	dashboard, err := s.ledger.Dashboard(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(portfolio.SummaryMarkdown(dashboard.Summary, dashboard.Breakdown, dashboard.Snapshot))
	return subcommands.ExitSuccess
}

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch quotes for every registered symbol" }
func (*refreshCmd) Usage() string {
	return `ledgerctl refresh

  Runs one market refresh and prints the resulting quotes.
`
}

func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close(ctx)

	s.market.Refresh(ctx)
	printMarkdown(portfolio.QuotesMarkdown(s.market.Snapshot().Quotes))
	return subcommands.ExitSuccess
}
