package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testEntry(kind Kind, amount string, account Account, date string) Entry {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	return Entry{
		ID:          string(kind) + "-" + amount + "-" + string(account),
		Kind:        kind,
		Description: "t",
		Amount:      a,
		Quantity:    1,
		Account:     account,
		Date:        MustParseDay(date),
	}
}

func TestSummarizeScenario(t *testing.T) {
	entries := []Entry{
		testEntry(Income, "100", CashLocal, "2024-01-10"),
		testEntry(Expense, "30", CashLocal, "2024-01-10"),
		testEntry(Adjustment, "50", CashUSD, "2024-01-05"),
	}

	s := Summarize(Filter(entries, Window{Mode: WindowAll}, MustParseDay("2024-01-15")))
	if got := s.Balance(CashLocal); !got.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("CashLocal balance = %s, want 70", got)
	}
	if got := s.Balance(CashUSD); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("CashUSD balance = %s, want 50", got)
	}
	if !s.TotalBSF.Equal(decimal.NewFromInt(70)) || !s.TotalUSD.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("totals = %s / %s, want 70 / 50", s.TotalBSF, s.TotalUSD)
	}
}

func TestSummarizeCustomWindowExcludes(t *testing.T) {
	entries := []Entry{
		testEntry(Income, "100", CashLocal, "2024-01-10"),
		testEntry(Expense, "30", CashLocal, "2024-01-10"),
		testEntry(Adjustment, "50", CashUSD, "2024-01-05"),
	}
	w := Window{Mode: WindowCustom, Start: MustParseDay("2024-01-06"), End: MustParseDay("2024-01-31")}

	s := Summarize(Filter(entries, w, MustParseDay("2024-01-15")))
	if !s.Balance(CashUSD).IsZero() {
		t.Fatalf("CashUSD = %s, want 0 (adjustment outside window)", s.Balance(CashUSD))
	}
	if !s.TotalBSF.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("TotalBSF = %s, want 70", s.TotalBSF)
	}
}

func TestSummarizeAccountsSumToCurrencyTotals(t *testing.T) {
	entries := []Entry{
		testEntry(Income, "10.10", MobilePayment, "2024-01-01"),
		testEntry(Income, "20.25", CashLocal, "2024-01-02"),
		testEntry(Expense, "5.05", CashLocal, "2024-01-03"),
		testEntry(Adjustment, "7", CashUSD, "2024-01-04"),
		testEntry(Expense, "2.50", DigitalUSD, "2024-01-05"),
		testEntry(Income, "0.01", DigitalUSD, "2024-01-06"),
	}
	s := Summarize(entries)

	var bsf, usd decimal.Decimal
	for _, b := range s.Accounts {
		if !b.Balance.Equal(b.Credits.Sub(b.Debits)) {
			t.Fatalf("%s: balance %s != credits-debits %s", b.Account, b.Balance, b.Credits.Sub(b.Debits))
		}
		switch b.Currency {
		case BSF:
			bsf = bsf.Add(b.Balance)
		case USD:
			usd = usd.Add(b.Balance)
		}
	}
	if !bsf.Equal(s.TotalBSF) || !usd.Equal(s.TotalUSD) {
		t.Fatalf("account balances do not add up: %s/%s vs %s/%s", bsf, usd, s.TotalBSF, s.TotalUSD)
	}
}

func TestSummarizeIsOrderIndependent(t *testing.T) {
	entries := []Entry{
		testEntry(Income, "1.10", CashLocal, "2024-01-01"),
		testEntry(Expense, "0.30", CashLocal, "2024-01-01"),
		testEntry(Income, "2.05", MobilePayment, "2024-01-02"),
	}
	reversed := []Entry{entries[2], entries[1], entries[0]}

	a, b := Summarize(entries), Summarize(reversed)
	if !a.TotalBSF.Equal(b.TotalBSF) || !a.TotalUSD.Equal(b.TotalUSD) {
		t.Fatalf("order changed the result: %+v vs %+v", a, b)
	}
	for i := range a.Accounts {
		if !a.Accounts[i].Balance.Equal(b.Accounts[i].Balance) {
			t.Fatalf("account %s differs", a.Accounts[i].Account)
		}
	}
}

func TestEstimateUSD(t *testing.T) {
	s := Summary{TotalBSF: decimal.NewFromInt(73)}

	got, ok := s.EstimateUSD(decimal.RequireFromString("36.5"))
	if !ok || !got.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("73 / 36.5 = %s (ok=%v), want 2", got, ok)
	}

	if _, ok := s.EstimateUSD(decimal.Zero); ok {
		t.Fatalf("zero rate must be unavailable")
	}
	if _, ok := s.EstimateUSD(decimal.NewFromInt(-3)); ok {
		t.Fatalf("negative rate must be unavailable")
	}
}
