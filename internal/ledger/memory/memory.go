// Package memory provides a mutex-guarded in-memory ledger store. It is the
// default backend for local runs and the store of choice in tests.
package memory

import (
	"context"
	"sync"

	"caja/internal/core"
	"caja/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	entries map[string]core.Entry
	rate    core.RateSetting

	watchers []chan struct{}
}

func New() *Store {
	return &Store{entries: make(map[string]core.Entry)}
}

// Seed pre-loads a snapshot, bypassing notification. Intended for tests and
// for seeding a fresh process from an exported file.
func (s *Store) Seed(entries []core.Entry, rate core.RateSetting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]core.Entry, len(entries))
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	s.rate = rate
}

func (s *Store) SaveEntry(_ context.Context, e core.Entry) error {
	s.mu.Lock()
	s.entries[e.ID] = e
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) GetEntry(_ context.Context, id string) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return core.Entry{}, ledger.ErrEntryNotFound
	}
	return e, nil
}

func (s *Store) DeleteEntry(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.entries[id]; !ok {
		s.mu.Unlock()
		return ledger.ErrEntryNotFound
	}
	delete(s.entries, id)
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) ListEntries(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) ReplaceAll(_ context.Context, entries []core.Entry) error {
	s.mu.Lock()
	s.entries = make(map[string]core.Entry, len(entries))
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) ExchangeRate(_ context.Context) (core.RateSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate, nil
}

func (s *Store) SetExchangeRate(_ context.Context, r core.RateSetting) error {
	s.mu.Lock()
	s.rate = r
	s.mu.Unlock()
	s.notify()
	return nil
}

// Watch implements ledger.Watcher. The channel has capacity 1 and signals are
// coalesced: a slow consumer sees at least one signal for any burst of writes,
// which is enough because consumers recompute from a fresh snapshot anyway.
func (s *Store) Watch(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		// Closed under the lock, after deregistration, so notify can
		// never send on a closed channel.
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.watchers {
		select {
		case w <- struct{}{}:
		default:
		}
	}
}

var _ ledger.Store = (*Store)(nil)
var _ ledger.Watcher = (*Store)(nil)
