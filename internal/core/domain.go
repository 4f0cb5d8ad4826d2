package core

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies an entry's effect on a balance. Income and adjustments add,
// expenses subtract; the amount itself is always stored positive.
type Kind string

const (
	Income     Kind = "income"
	Expense    Kind = "expense"
	Adjustment Kind = "adjustment"
)

// IsValid returns true if the kind is one of the three enumerated values.
func (k Kind) IsValid() bool {
	switch k {
	case Income, Expense, Adjustment:
		return true
	default:
		return false
	}
}

// Credits reports whether entries of this kind add to a balance.
func (k Kind) Credits() bool { return k == Income || k == Adjustment }

// Currency is one of the two currencies the ledger tracks.
type Currency string

const (
	BSF Currency = "BSF" // local currency (bolívares)
	USD Currency = "USD"
)

// Account is one of the four fixed payment instruments. The wire values match
// the documents already in the store.
type Account string

const (
	MobilePayment Account = "PAGO_MOVIL_BS"
	CashLocal     Account = "EFECTIVO_BS"
	CashUSD       Account = "EFECTIVO_USD"
	DigitalUSD    Account = "USDT"
)

// Accounts lists every account in display order. Aggregation iterates this
// slice so results come out deterministic.
var Accounts = []Account{MobilePayment, CashLocal, CashUSD, DigitalUSD}

// accountCurrencies binds each account to its single currency. Adding an
// account means adding a row here; the aggregator never branches on account
// names directly.
var accountCurrencies = map[Account]Currency{
	MobilePayment: BSF,
	CashLocal:     BSF,
	CashUSD:       USD,
	DigitalUSD:    USD,
}

// IsValid returns true if the account is one of the four enumerated instruments.
func (a Account) IsValid() bool {
	_, ok := accountCurrencies[a]
	return ok
}

// Currency returns the currency the account is bound to.
func (a Account) Currency() Currency { return accountCurrencies[a] }

var (
	ErrInvalidKind        = errors.New("invalid kind")
	ErrInvalidDescription = errors.New("empty description")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInvalidDate        = errors.New("invalid date")
	ErrImportBatchInvalid = errors.New("import batch invalid")
)

// Entry is one recorded income, expense, or adjustment movement. Entries are
// immutable value records: an update is a full replace under the same ID with
// CreatedAt carried over.
type Entry struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Quantity    int             `json:"quantity"`
	Account     Account         `json:"paymentMethod"`
	Date        Day             `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validate checks an already-typed entry against the ledger rules. It is the
// re-validation hook for imported snapshots; form input goes through NewEntry.
func (e Entry) Validate() error {
	if !e.Kind.IsValid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrInvalidDescription
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if e.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if e.Kind == Adjustment && e.Quantity != 1 {
		return ErrInvalidQuantity
	}
	if !e.Account.IsValid() {
		return ErrInvalidAccount
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// RawEntry is the untyped field set collected by the transaction form. All
// fields are strings so that bad input can be rejected with a precise error
// before anything touches storage.
type RawEntry struct {
	ID          string
	Kind        string
	Description string
	Amount      string
	Quantity    string
	Account     string
	Date        string
}

// NewEntry validates and normalizes raw input into an Entry.
//
// A missing ID means creation: a fresh ID is generated and CreatedAt is set to
// now. An ID with a known prior record means full replace: CreatedAt is
// carried over from prior. An ID never seen before keeps the ID and stamps
// CreatedAt now.
func NewEntry(raw RawEntry, prior *Entry, now time.Time) (Entry, error) {
	kind := Kind(strings.TrimSpace(raw.Kind))
	if !kind.IsValid() {
		return Entry{}, ErrInvalidKind
	}

	desc := strings.TrimSpace(raw.Description)
	if desc == "" {
		return Entry{}, ErrInvalidDescription
	}

	amount, err := ParseAmount(raw.Amount)
	if err != nil {
		return Entry{}, err
	}

	quantity := 1
	if kind != Adjustment {
		quantity, err = parseQuantity(raw.Quantity)
		if err != nil {
			return Entry{}, err
		}
	}

	account := Account(strings.TrimSpace(raw.Account))
	if !account.IsValid() {
		return Entry{}, ErrInvalidAccount
	}

	day, err := ParseDay(strings.TrimSpace(raw.Date))
	if err != nil {
		return Entry{}, ErrInvalidDate
	}

	e := Entry{
		ID:          strings.TrimSpace(raw.ID),
		Kind:        kind,
		Description: desc,
		Amount:      amount,
		Quantity:    quantity,
		Account:     account,
		Date:        day,
		CreatedAt:   now,
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	} else if prior != nil && !prior.CreatedAt.IsZero() {
		e.CreatedAt = prior.CreatedAt
	}
	return e, nil
}

// parseQuantity accepts an explicit positive integer, defaulting to 1 only
// when the field was left blank. An explicit bad value is rejected rather than
// silently recovered.
func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	q, err := strconv.Atoi(s)
	if err != nil || q < 1 {
		return 0, ErrInvalidQuantity
	}
	return q, nil
}

// RateSetting is the single exchange-rate configuration record: local-currency
// units per 1 USD. Rate <= 0 means the rate has not been set.
type RateSetting struct {
	Rate      decimal.Decimal `json:"exchangeRate"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// IsSet reports whether a usable rate is present.
func (r RateSetting) IsSet() bool { return r.Rate.IsPositive() }
