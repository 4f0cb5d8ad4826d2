// Package ledger defines the ports the ledger core uses to reach durable
// storage. Stores are interchangeable: in-memory, a flat JSON document, or
// SQLite behind the same interfaces.
package ledger

import (
	"context"
	"errors"

	"caja/internal/core"
)

// ErrEntryNotFound is returned by stores when an id has no entry.
var ErrEntryNotFound = errors.New("entry not found")

type (
	// EntryStore persists the transaction log. SaveEntry is a full create-or-
	// replace by id; partial patches do not exist in this model. Concurrent
	// writers are resolved last-write-wins by the store.
	EntryStore interface {
		SaveEntry(ctx context.Context, e core.Entry) error
		GetEntry(ctx context.Context, id string) (core.Entry, error)
		DeleteEntry(ctx context.Context, id string) error
		// ListEntries returns a point-in-time snapshot of the full collection,
		// in no particular order.
		ListEntries(ctx context.Context) ([]core.Entry, error)
		// ReplaceAll swaps the whole collection, for all-or-nothing imports.
		ReplaceAll(ctx context.Context, entries []core.Entry) error
	}

	// SettingsStore persists the single exchange-rate setting. There is one
	// logical instance, overwritten wholesale on update.
	SettingsStore interface {
		ExchangeRate(ctx context.Context) (core.RateSetting, error)
		SetExchangeRate(ctx context.Context, s core.RateSetting) error
	}

	// Store is the full persistence surface a backend provides.
	Store interface {
		EntryStore
		SettingsStore
	}

	// Watcher is an optional live-sync capability: the returned channel
	// receives a signal after every mutation and is closed once ctx is
	// done. Consumers react by re-reading the snapshot and recomputing,
	// never by patching.
	Watcher interface {
		Watch(ctx context.Context) <-chan struct{}
	}
)
