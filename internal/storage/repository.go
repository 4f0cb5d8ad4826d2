// Package storage holds the SQLite persistence layer for the ledger.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"caja/internal/core"
	"caja/internal/ledger"
)

const exchangeRateKey = "exchange_rate"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) SaveEntry(ctx context.Context, e core.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (id, kind, description, amount, quantity, account, entry_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			description = excluded.description,
			amount = excluded.amount,
			quantity = excluded.quantity,
			account = excluded.account,
			entry_date = excluded.entry_date,
			created_at = excluded.created_at`,
		e.ID, string(e.Kind), e.Description, e.Amount.String(), e.Quantity,
		string(e.Account), e.Date.String(), e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"id", e.ID,
		"kind", e.Kind,
		"account", e.Account,
		"amount", e.Amount)
	return nil
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, description, amount, quantity, account, entry_date, created_at
		FROM entries WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, ledger.ErrEntryNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n == 0 {
		return ledger.ErrEntryNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListEntries(ctx context.Context) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, description, amount, quantity, account, entry_date, created_at
		FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, entries []core.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entries (id, kind, description, amount, quantity, account, entry_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, string(e.Kind), e.Description, e.Amount.String(), e.Quantity,
			string(e.Account), e.Date.String(), e.CreatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}

	slog.InfoContext(ctx, "Ledger replaced", "entries", len(entries))
	return nil
}

func (r *SQLiteRepository) ExchangeRate(ctx context.Context) (core.RateSetting, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT value, updated_at FROM settings WHERE key = ?`, exchangeRateKey)

	var value, updatedAt string
	err := row.Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RateSetting{}, nil
	}
	if err != nil {
		return core.RateSetting{}, fmt.Errorf("get exchange rate: %w", err)
	}

	rate, err := decimal.NewFromString(value)
	if err != nil {
		return core.RateSetting{}, fmt.Errorf("parse stored exchange rate %q: %w", value, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return core.RateSetting{}, fmt.Errorf("parse exchange rate timestamp %q: %w", updatedAt, err)
	}
	return core.RateSetting{Rate: rate, UpdatedAt: ts}, nil
}

func (r *SQLiteRepository) SetExchangeRate(ctx context.Context, setting core.RateSetting) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		exchangeRateKey, setting.Rate.String(), setting.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set exchange rate: %w", err)
	}

	slog.InfoContext(ctx, "Exchange rate updated", "rate", setting.Rate)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e                     core.Entry
		kind, account, amount string
		entryDate, createdAt  string
	)
	if err := row.Scan(&e.ID, &kind, &e.Description, &amount, &e.Quantity,
		&account, &entryDate, &createdAt); err != nil {
		return core.Entry{}, err
	}

	e.Kind = core.Kind(kind)
	e.Account = core.Account(account)

	var err error
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Entry{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if e.Date, err = core.ParseDay(entryDate); err != nil {
		return core.Entry{}, fmt.Errorf("parse entry date %q: %w", entryDate, err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return core.Entry{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return e, nil
}

var _ ledger.Store = (*SQLiteRepository)(nil)
