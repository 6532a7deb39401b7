package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRebind(t *testing.T) {
	testCases := []struct {
		dialect string
		in      string
		want    string
	}{
		{DialectSQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{DialectPostgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{DialectPostgres, "SELECT 1", "SELECT 1"},
	}
	for _, tc := range testCases {
		if got := Rebind(tc.dialect, tc.in); got != tc.want {
			t.Errorf("Rebind(%s, %q) = %q, want %q", tc.dialect, tc.in, got, tc.want)
		}
	}
}

func TestOpenSQLCreatesSchemaTwice(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	for i := 0; i < 2; i++ {
		db, err := OpenSQL(ctx, DialectSQLite, path)
		if err != nil {
			t.Fatalf("OpenSQL run %d: %v", i, err)
		}
		var n int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
			t.Fatalf("transactions table missing: %v", err)
		}
		db.Close()
	}
}

func TestOpenSQLUnknownDialect(t *testing.T) {
	if _, err := OpenSQL(context.Background(), "oracle", "x"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}
