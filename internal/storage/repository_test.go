package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"caja/internal/core"
	"caja/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testEntry(id string) core.Entry {
	return core.Entry{
		ID:          id,
		Kind:        core.Expense,
		Description: "groceries",
		Amount:      decimal.RequireFromString("12.50"),
		Quantity:    2,
		Account:     core.CashLocal,
		Date:        core.MustParseDay("2024-01-10"),
		CreatedAt:   time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC),
	}
}

func TestSaveAndGetEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := testEntry("e1")
	if err := repo.SaveEntry(ctx, e); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}

	got, err := repo.GetEntry(ctx, "e1")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.Kind != e.Kind || got.Description != e.Description || got.Quantity != e.Quantity {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.Amount.Equal(e.Amount) {
		t.Fatalf("amount = %s, want %s", got.Amount, e.Amount)
	}
	if got.Date != e.Date {
		t.Fatalf("date = %s, want %s", got.Date, e.Date)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Fatalf("createdAt = %s, want %s", got.CreatedAt, e.CreatedAt)
	}
}

func TestSaveEntryUpdatesInPlace(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := testEntry("e1")
	if err := repo.SaveEntry(ctx, e); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	e.Description = "pharmacy"
	e.Amount = decimal.RequireFromString("40")
	if err := repo.SaveEntry(ctx, e); err != nil {
		t.Fatalf("SaveEntry update: %v", err)
	}

	entries, err := repo.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after update, got %d", len(entries))
	}
	if entries[0].Description != "pharmacy" {
		t.Fatalf("description = %q", entries[0].Description)
	}
}

func TestDeleteEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveEntry(ctx, testEntry("e1")); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	if err := repo.DeleteEntry(ctx, "e1"); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if err := repo.DeleteEntry(ctx, "e1"); !errors.Is(err, ledger.ErrEntryNotFound) {
		t.Fatalf("second delete = %v, want ErrEntryNotFound", err)
	}
	if _, err := repo.GetEntry(ctx, "e1"); !errors.Is(err, ledger.ErrEntryNotFound) {
		t.Fatalf("GetEntry after delete = %v, want ErrEntryNotFound", err)
	}
}

func TestReplaceAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveEntry(ctx, testEntry("old")); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	if err := repo.ReplaceAll(ctx, []core.Entry{testEntry("a"), testEntry("b")}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	entries, err := repo.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.ID == "old" {
			t.Fatal("old entry survived ReplaceAll")
		}
	}
}

func TestExchangeRateRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	r, err := repo.ExchangeRate(ctx)
	if err != nil {
		t.Fatalf("ExchangeRate: %v", err)
	}
	if r.IsSet() {
		t.Fatalf("expected unset rate, got %+v", r)
	}

	want := core.RateSetting{
		Rate:      decimal.RequireFromString("36.5"),
		UpdatedAt: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.SetExchangeRate(ctx, want); err != nil {
		t.Fatalf("SetExchangeRate: %v", err)
	}
	got, err := repo.ExchangeRate(ctx)
	if err != nil {
		t.Fatalf("ExchangeRate: %v", err)
	}
	if !got.Rate.Equal(want.Rate) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("rate round trip = %+v, want %+v", got, want)
	}
}
