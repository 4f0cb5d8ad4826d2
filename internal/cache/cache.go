// Package cache provides a small in-process LRU cache with TTL, used to
// memoize derived ledger views between writes.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Cleaner is anything that can evict its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs a periodic cleanup pass over a set of registered caches.
type Manager struct {
	mu       sync.Mutex
	caches   map[string]Cleaner
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewManager(interval time.Duration) *Manager {
	return &Manager{
		caches:   make(map[string]Cleaner),
		interval: interval,
	}
}

// Register adds a cache to the cleanup rotation under the given name.
func (m *Manager) Register(name string, c Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches[name] = c
}

// StartCleanup launches the background cleanup loop. It runs until Stop
// is called or ctx is cancelled.
func (m *Manager) StartCleanup(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.cleanAll(ctx)
			}
		}
	}()
}

func (m *Manager) cleanAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, c := range m.caches {
		if removed := c.CleanExpired(); removed > 0 {
			slog.DebugContext(ctx, "Cache cleanup",
				"cache", name,
				"removed", removed,
			)
		}
	}
}

// Stop halts the cleanup loop and waits for it to exit.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}
