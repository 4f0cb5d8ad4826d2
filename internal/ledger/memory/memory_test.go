package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"caja/internal/core"
	"caja/internal/ledger"
)

func entry(id string) core.Entry {
	return core.Entry{
		ID:          id,
		Kind:        core.Income,
		Description: "venta",
		Amount:      decimal.NewFromInt(10),
		Quantity:    1,
		Account:     core.CashLocal,
		Date:        core.MustParseDay("2024-01-10"),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.SaveEntry(ctx, entry("a")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetEntry(ctx, "a")
	if err != nil || got.ID != "a" {
		t.Fatalf("get: %+v err=%v", got, err)
	}

	// full replace under the same id
	e := entry("a")
	e.Description = "venta corregida"
	if err := s.SaveEntry(ctx, e); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ = s.GetEntry(ctx, "a")
	if got.Description != "venta corregida" {
		t.Fatalf("replace did not stick: %q", got.Description)
	}

	if err := s.DeleteEntry(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetEntry(ctx, "a"); !errors.Is(err, ledger.ErrEntryNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	if err := s.DeleteEntry(ctx, "a"); !errors.Is(err, ledger.ErrEntryNotFound) {
		t.Fatalf("double delete: %v", err)
	}
}

func TestListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.SaveEntry(ctx, entry("a"))
	_ = s.SaveEntry(ctx, entry("b"))

	list, err := s.ListEntries(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %d err=%v", len(list), err)
	}
	list[0].Description = "mutated"
	fresh, _ := s.ListEntries(ctx)
	for _, e := range fresh {
		if e.Description == "mutated" {
			t.Fatalf("list leaked internal state")
		}
	}
}

func TestReplaceAll(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.SaveEntry(ctx, entry("old"))

	if err := s.ReplaceAll(ctx, []core.Entry{entry("n1"), entry("n2")}); err != nil {
		t.Fatalf("replace all: %v", err)
	}
	if _, err := s.GetEntry(ctx, "old"); !errors.Is(err, ledger.ErrEntryNotFound) {
		t.Fatalf("old entry survived import: %v", err)
	}
	list, _ := s.ListEntries(ctx)
	if len(list) != 2 {
		t.Fatalf("got %d entries, want 2", len(list))
	}
}

func TestExchangeRateOverwrite(t *testing.T) {
	ctx := context.Background()
	s := New()

	r, err := s.ExchangeRate(ctx)
	if err != nil || r.IsSet() {
		t.Fatalf("fresh store should have no rate: %+v err=%v", r, err)
	}

	set := core.RateSetting{Rate: decimal.RequireFromString("36.5"), UpdatedAt: time.Now().UTC()}
	if err := s.SetExchangeRate(ctx, set); err != nil {
		t.Fatalf("set: %v", err)
	}
	r, _ = s.ExchangeRate(ctx)
	if !r.Rate.Equal(set.Rate) {
		t.Fatalf("rate = %s, want %s", r.Rate, set.Rate)
	}
}

func TestWatchSignalsOnMutation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New()
	ch := s.Watch(ctx)

	_ = s.SaveEntry(ctx, entry("a"))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("no change signal after save")
	}

	// signals coalesce, the channel never blocks writers
	_ = s.SaveEntry(ctx, entry("b"))
	_ = s.SaveEntry(ctx, entry("c"))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("no change signal after burst")
	}

	// cancelling closes the channel, possibly after a pending signal
	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}
