package models

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tx := Transaction{
		CoinSymbol:      "  btc ",
		TransactionType: "airdrop",
		BuyPrice:        20000,
		Amount:          0.5,
		TotalValue:      1, // se recalcula
		Fees:            -3,
		Notes:           strings.Repeat("ñ", MaxNotesLength+20),
	}
	tx.Normalize()

	if tx.CoinSymbol != "BTC" {
		t.Errorf("CoinSymbol = %q, want BTC", tx.CoinSymbol)
	}
	if tx.TransactionType != TransactionTypeBuy {
		t.Errorf("TransactionType = %q, want buy", tx.TransactionType)
	}
	if tx.TotalValue != 10000 {
		t.Errorf("TotalValue = %v, want 10000", tx.TotalValue)
	}
	if tx.Fees != 0 {
		t.Errorf("Fees = %v, want 0", tx.Fees)
	}
	if n := len([]rune(tx.Notes)); n != MaxNotesLength {
		t.Errorf("len(Notes) = %d runes, want %d", n, MaxNotesLength)
	}
}

func TestNormalizeKeepsSell(t *testing.T) {
	tx := Transaction{CoinSymbol: "eth", TransactionType: TransactionTypeSell, BuyPrice: 2, Amount: 3}
	tx.Normalize()
	if tx.TransactionType != TransactionTypeSell {
		t.Errorf("TransactionType = %q, want sell", tx.TransactionType)
	}
}

func TestMarketSnapshotQuote(t *testing.T) {
	var nilSnap *MarketSnapshot
	if q, ok := nilSnap.Quote("BTC"); ok || q.Price != 0 {
		t.Errorf("nil snapshot returned %v, %v", q, ok)
	}

	snap := &MarketSnapshot{Quotes: Quotes{"BTC": {Symbol: "BTC", Price: 25000}}}
	if q, ok := snap.Quote("BTC"); !ok || q.Price != 25000 {
		t.Errorf("Quote(BTC) = %v, %v", q, ok)
	}

	clone := snap.Clone()
	clone.Quotes["ETH"] = Quote{Symbol: "ETH"}
	if _, ok := snap.Quote("ETH"); ok {
		t.Error("Clone shares the quotes map with the original")
	}
}
