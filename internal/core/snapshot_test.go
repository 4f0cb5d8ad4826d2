package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateSnapshotAcceptsAndNormalizes(t *testing.T) {
	snap := Snapshot{
		Entries: []Entry{
			testEntry(Income, "100", CashLocal, "2024-01-10"),
			{ // hand-edited file: no id, no createdAt, stale adjustment quantity
				Kind:        Adjustment,
				Description: "Saldo inicial",
				Amount:      decimal.NewFromInt(50),
				Quantity:    3,
				Account:     CashUSD,
				Date:        MustParseDay("2024-01-05"),
			},
		},
		Rate: decimal.RequireFromString("36.5"),
	}

	entries, err := ValidateSnapshot(snap, testNow)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if entries[1].ID == "" || entries[1].CreatedAt.IsZero() {
		t.Fatalf("missing fields not filled: %+v", entries[1])
	}
	if entries[1].Quantity != 1 {
		t.Fatalf("adjustment quantity = %d, want 1", entries[1].Quantity)
	}
}

func TestValidateSnapshotAllOrNothing(t *testing.T) {
	bad := testEntry(Income, "100", CashLocal, "2024-01-10")
	bad.Amount = decimal.Zero

	snap := Snapshot{Entries: []Entry{
		testEntry(Income, "100", CashLocal, "2024-01-10"),
		bad,
		testEntry(Expense, "5", CashUSD, "2024-01-11"),
	}}
	_, err := ValidateSnapshot(snap, testNow)
	if !errors.Is(err, ErrImportBatchInvalid) {
		t.Fatalf("got %v, want ErrImportBatchInvalid", err)
	}
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("batch error should wrap the offending entry's error, got %v", err)
	}
}

func TestValidateSnapshotRejectsDuplicateIDs(t *testing.T) {
	e := testEntry(Income, "10", CashLocal, "2024-01-10")
	_, err := ValidateSnapshot(Snapshot{Entries: []Entry{e, e}}, testNow)
	if !errors.Is(err, ErrImportBatchInvalid) {
		t.Fatalf("got %v, want ErrImportBatchInvalid", err)
	}
}

func TestSnapshotRoundTripPreservesSummary(t *testing.T) {
	snap := Snapshot{
		Entries: []Entry{
			testEntry(Income, "100.50", CashLocal, "2024-01-10"),
			testEntry(Expense, "30.25", CashLocal, "2024-01-10"),
			testEntry(Adjustment, "50", CashUSD, "2024-01-05"),
		},
		Rate: decimal.RequireFromString("36.5"),
	}
	before := Summarize(snap.Entries)

	b, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored Snapshot
	if err := json.Unmarshal(b, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	entries, err := ValidateSnapshot(restored, testNow)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	after := Summarize(entries)
	if !after.TotalBSF.Equal(before.TotalBSF) || !after.TotalUSD.Equal(before.TotalUSD) {
		t.Fatalf("summary drifted across round trip: %+v vs %+v", after, before)
	}
	if !restored.Rate.Equal(snap.Rate) {
		t.Fatalf("rate drifted: %s vs %s", restored.Rate, snap.Rate)
	}
}
