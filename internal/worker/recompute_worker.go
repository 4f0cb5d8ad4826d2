// Package worker recomputes ledger balances whenever the ledger changes.
// It is the consumer side of the change notifications the service publishes:
// the broker only says "something changed", the worker always reads current
// state from the store, so duplicate or lost messages are harmless.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"caja/internal/amqp"
	"caja/internal/core"
	"caja/internal/ledger"
	applog "caja/internal/log"
)

// RecomputeWorker folds the full ledger into balances and reports them.
type RecomputeWorker struct {
	store ledger.Store
}

func NewRecomputeWorker(store ledger.Store) *RecomputeWorker {
	return &RecomputeWorker{store: store}
}

// HandleChangeMessage processes a single ledger change message from AMQP.
func (w *RecomputeWorker) HandleChangeMessage(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		applog.FieldEntryID, msg.EntryID,
		"action", msg.Action)

	return w.Recompute(ctx)
}

// Recompute reads the whole ledger and logs the per-account balances and the
// per-currency totals. The read is always fresh; no state is kept between runs.
func (w *RecomputeWorker) Recompute(ctx context.Context) error {
	entries, err := w.store.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	summary := core.Summarize(entries)
	for _, b := range summary.Accounts {
		slog.InfoContext(ctx, "Account balance",
			applog.FieldAccount, b.Account,
			"currency", b.Currency,
			"credits", b.Credits,
			"debits", b.Debits,
			"balance", b.Balance)
	}

	args := []any{
		"entries", len(entries),
		"total_bsf", summary.TotalBSF,
		"total_usd", summary.TotalUSD,
	}
	rate, err := w.store.ExchangeRate(ctx)
	if err != nil {
		return fmt.Errorf("get exchange rate: %w", err)
	}
	if usd, ok := summary.EstimateUSD(rate.Rate); ok {
		args = append(args, "rate", rate.Rate, "bsf_in_usd", usd)
	}
	slog.InfoContext(ctx, "Ledger totals", args...)

	return nil
}
