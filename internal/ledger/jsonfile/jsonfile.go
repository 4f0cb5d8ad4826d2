// Package jsonfile persists the ledger as a single flat JSON document, the
// lightweight alternative to a hosted database. Every write lands atomically
// (tmp file + rename) and the previous document is kept as a timestamped
// backup first.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"caja/internal/core"
	"caja/internal/ledger"
)

// document is the on-disk shape. The keys match the export files the
// application has always produced, so a db.json and an exported snapshot are
// interchangeable.
type document struct {
	Transactions  []core.Entry    `json:"transactions"`
	ExchangeRate  decimal.Decimal `json:"exchangeRateBSFtoUSD"`
	RateUpdatedAt time.Time       `json:"rateUpdatedAt"`
}

type Store struct {
	mu        sync.Mutex
	path      string
	backupDir string

	entries map[string]core.Entry
	rate    core.RateSetting
}

// Open loads the document at path, creating an empty one when the file does
// not exist yet. Backups of overwritten documents go to backupDir; an empty
// backupDir disables backups.
func Open(path, backupDir string) (*Store, error) {
	s := &Store{
		path:      path,
		backupDir: backupDir,
		entries:   make(map[string]core.Entry),
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse ledger file %s: %w", path, err)
	}
	for _, e := range doc.Transactions {
		s.entries[e.ID] = e
	}
	s.rate = core.RateSetting{Rate: doc.ExchangeRate, UpdatedAt: doc.RateUpdatedAt}
	return s, nil
}

func (s *Store) SaveEntry(_ context.Context, e core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.entries[e.ID]
	s.entries[e.ID] = e
	if err := s.flushLocked(); err != nil {
		if existed {
			s.entries[e.ID] = prev
		} else {
			delete(s.entries, e.ID)
		}
		return err
	}
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
	defer s.mu.Unlock()
	prev, ok := s.entries[id]
	if !ok {
		return ledger.ErrEntryNotFound
	}
	delete(s.entries, id)
	if err := s.flushLocked(); err != nil {
		s.entries[id] = prev
		return err
	}
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
	defer s.mu.Unlock()
	prev := s.entries
	s.entries = make(map[string]core.Entry, len(entries))
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	if err := s.flushLocked(); err != nil {
		s.entries = prev
		return err
	}
	return nil
}

func (s *Store) ExchangeRate(_ context.Context) (core.RateSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate, nil
}

func (s *Store) SetExchangeRate(_ context.Context, r core.RateSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.rate
	s.rate = r
	if err := s.flushLocked(); err != nil {
		s.rate = prev
		return err
	}
	return nil
}

// flushLocked writes the current document to disk. Callers hold s.mu.
func (s *Store) flushLocked() error {
	if err := s.backupLocked(); err != nil {
		return err
	}

	doc := document{
		Transactions:  make([]core.Entry, 0, len(s.entries)),
		ExchangeRate:  s.rate.Rate,
		RateUpdatedAt: s.rate.UpdatedAt,
	}
	for _, e := range s.entries {
		doc.Transactions = append(doc.Transactions, e)
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}

// backupLocked copies the current document into the backup directory before
// it gets overwritten.
func (s *Store) backupLocked() error {
	if s.backupDir == "" {
		return nil
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read ledger file for backup: %w", err)
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	stamp := time.Now().UTC().Format("20060102T150405.000000000")
	name := filepath.Join(s.backupDir, fmt.Sprintf("db_backup_%s.json", stamp))
	if err := os.WriteFile(name, b, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

var _ ledger.Store = (*Store)(nil)
