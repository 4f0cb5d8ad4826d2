// Package services orchestrates ledger operations across storage and the
// message broker.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"caja/internal/amqp"
	"caja/internal/core"
	"caja/internal/ledger"
)

// Notifier publishes ledger change notifications. Satisfied by *amqp.Client;
// nil disables notifications.
type Notifier interface {
	PublishLedgerChanged(ctx context.Context, entryID, action string) error
}

// Report is the computed view over a window of entries: the filtered list
// split by effect, plus balances and the optional USD estimate.
type Report struct {
	Entries []core.Entry
	Credits []core.Entry
	Debits  []core.Entry
	Summary core.Summary
	Rate    core.RateSetting
	USD     decimal.Decimal
	USDSet  bool
}

// LedgerService owns every write path and the read views. Mutations go to the
// store first; broker notifications are best effort and never fail a request.
type LedgerService struct {
	store    ledger.Store
	notifier Notifier
	now      func() time.Time
}

func NewLedgerService(store ledger.Store, notifier Notifier) *LedgerService {
	return &LedgerService{
		store:    store,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Save validates raw input and creates or fully replaces an entry. When the
// input carries the ID of a stored entry, that entry's CreatedAt survives the
// replace.
func (s *LedgerService) Save(ctx context.Context, raw core.RawEntry) (core.Entry, error) {
	var prior *core.Entry
	if raw.ID != "" {
		if p, err := s.store.GetEntry(ctx, raw.ID); err == nil {
			prior = &p
		}
	}

	e, err := core.NewEntry(raw, prior, s.now())
	if err != nil {
		return core.Entry{}, err
	}

	if err := s.store.SaveEntry(ctx, e); err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	s.notify(ctx, e.ID, amqp.ActionSaved)
	return e, nil
}

// Delete removes an entry. Deleting an unknown ID returns ledger.ErrEntryNotFound.
func (s *LedgerService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, id, amqp.ActionDeleted)
	return nil
}

// List returns the entries inside the window, newest first.
func (s *LedgerService) List(ctx context.Context, w core.Window) ([]core.Entry, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return core.Filter(entries, w, core.Today()), nil
}

// Report computes the full view for a window: filtered entries, the
// credit/debit split, per-account balances, and the USD estimate when an
// exchange rate is configured.
func (s *LedgerService) Report(ctx context.Context, w core.Window) (Report, error) {
	entries, err := s.List(ctx, w)
	if err != nil {
		return Report{}, err
	}

	rate, err := s.store.ExchangeRate(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("get exchange rate: %w", err)
	}

	credits, debits := core.Partition(entries)
	summary := core.Summarize(entries)
	usd, ok := summary.EstimateUSD(rate.Rate)

	return Report{
		Entries: entries,
		Credits: credits,
		Debits:  debits,
		Summary: summary,
		Rate:    rate,
		USD:     usd,
		USDSet:  ok,
	}, nil
}

// Rate returns the configured exchange rate, zero-valued when unset.
func (s *LedgerService) Rate(ctx context.Context) (core.RateSetting, error) {
	return s.store.ExchangeRate(ctx)
}

// SetRate parses and stores a new exchange rate.
func (s *LedgerService) SetRate(ctx context.Context, raw string) (core.RateSetting, error) {
	rate, err := core.ParseRate(raw)
	if err != nil {
		return core.RateSetting{}, err
	}

	setting := core.RateSetting{Rate: rate, UpdatedAt: s.now()}
	if err := s.store.SetExchangeRate(ctx, setting); err != nil {
		return core.RateSetting{}, fmt.Errorf("set exchange rate: %w", err)
	}

	s.notify(ctx, "", amqp.ActionRate)
	return setting, nil
}

// Export captures the entire ledger as a snapshot document.
func (s *LedgerService) Export(ctx context.Context) (core.Snapshot, error) {
	entries, err := s.List(ctx, core.Window{Mode: core.WindowAll})
	if err != nil {
		return core.Snapshot{}, err
	}
	rate, err := s.store.ExchangeRate(ctx)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("get exchange rate: %w", err)
	}
	return core.Snapshot{Entries: entries, Rate: rate.Rate}, nil
}

// Import validates a snapshot and atomically replaces the whole ledger with
// it. A single bad entry rejects the batch and leaves the store untouched.
func (s *LedgerService) Import(ctx context.Context, snap core.Snapshot) (int, error) {
	entries, err := core.ValidateSnapshot(snap, s.now())
	if err != nil {
		return 0, err
	}

	if err := s.store.ReplaceAll(ctx, entries); err != nil {
		return 0, fmt.Errorf("replace entries: %w", err)
	}
	// The rate is replaced wholesale along with the entries: a snapshot
	// without a usable rate restores the unset state.
	setting := core.RateSetting{}
	if snap.Rate.IsPositive() {
		setting = core.RateSetting{Rate: snap.Rate, UpdatedAt: s.now()}
	}
	if err := s.store.SetExchangeRate(ctx, setting); err != nil {
		return 0, fmt.Errorf("set exchange rate: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot imported", "entries", len(entries))
	s.notify(ctx, "", amqp.ActionImported)
	return len(entries), nil
}

func (s *LedgerService) notify(ctx context.Context, entryID, action string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishLedgerChanged(ctx, entryID, action); err != nil {
		// The store is the source of truth; a lost notification only
		// delays downstream recomputation.
		slog.ErrorContext(ctx, "Failed to publish change message",
			"entry_id", entryID,
			"action", action,
			"error", err)
	}
}
