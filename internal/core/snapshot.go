package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the round-trippable export format: the full entry collection
// plus the exchange rate. The JSON keys match the files the application has
// always produced.
type Snapshot struct {
	Entries []Entry         `json:"transactions"`
	Rate    decimal.Decimal `json:"exchangeRateBSFtoUSD"`
}

// ValidateSnapshot re-validates every entry of an imported snapshot and
// returns the normalized collection. Import is all-or-nothing: the first
// offending entry rejects the whole batch.
//
// Normalization fills gaps a hand-edited file may have: a missing ID gets a
// fresh one, a missing CreatedAt is stamped with now, and adjustment
// quantities are forced back to 1 when the stored value predates that rule.
func ValidateSnapshot(s Snapshot, now time.Time) ([]Entry, error) {
	if s.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: negative exchange rate", ErrImportBatchInvalid)
	}
	out := make([]Entry, len(s.Entries))
	seen := make(map[string]struct{}, len(s.Entries))
	for i, e := range s.Entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if e.Kind == Adjustment {
			e.Quantity = 1
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: transaction %d (%q): %w", ErrImportBatchInvalid, i, e.ID, err)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: transaction %d: duplicate id %q", ErrImportBatchInvalid, i, e.ID)
		}
		seen[e.ID] = struct{}{}
		out[i] = e
	}
	return out, nil
}
