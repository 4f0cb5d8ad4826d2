package core

import "github.com/shopspring/decimal"

// AccountBalance carries one account's sub-totals over the entries in scope.
type AccountBalance struct {
	Account  Account         `json:"account"`
	Currency Currency        `json:"currency"`
	Credits  decimal.Decimal `json:"credits"`
	Debits   decimal.Decimal `json:"debits"`
	Balance  decimal.Decimal `json:"balance"`
}

// Summary is the aggregated view of a (filtered) entry set: one balance per
// account plus the two per-currency totals.
type Summary struct {
	Accounts []AccountBalance `json:"accounts"`
	TotalBSF decimal.Decimal  `json:"totalBsf"`
	TotalUSD decimal.Decimal  `json:"totalUsd"`
}

// Summarize folds an entry set into per-account and per-currency balances in a
// single pass. It is a pure function: same input, same output, no dependence
// on iteration order.
func Summarize(entries []Entry) Summary {
	credits := make(map[Account]decimal.Decimal, len(Accounts))
	debits := make(map[Account]decimal.Decimal, len(Accounts))
	for _, e := range entries {
		if e.Kind.Credits() {
			credits[e.Account] = credits[e.Account].Add(e.Amount)
		} else {
			debits[e.Account] = debits[e.Account].Add(e.Amount)
		}
	}

	s := Summary{Accounts: make([]AccountBalance, 0, len(Accounts))}
	for _, a := range Accounts {
		b := AccountBalance{
			Account:  a,
			Currency: a.Currency(),
			Credits:  credits[a],
			Debits:   debits[a],
		}
		b.Balance = b.Credits.Sub(b.Debits)
		s.Accounts = append(s.Accounts, b)
		switch b.Currency {
		case BSF:
			s.TotalBSF = s.TotalBSF.Add(b.Balance)
		case USD:
			s.TotalUSD = s.TotalUSD.Add(b.Balance)
		}
	}
	return s
}

// Balance returns the balance for a single account.
func (s Summary) Balance(a Account) decimal.Decimal {
	for _, b := range s.Accounts {
		if b.Account == a {
			return b.Balance
		}
	}
	return decimal.Zero
}

// EstimateUSD converts the local-currency total using a manually entered rate
// (local units per 1 USD). ok=false when the rate is unset or non-positive:
// the caller must render "unavailable" instead of dividing.
func (s Summary) EstimateUSD(rate decimal.Decimal) (decimal.Decimal, bool) {
	if !rate.IsPositive() {
		return decimal.Zero, false
	}
	return s.TotalBSF.Div(rate), true
}
