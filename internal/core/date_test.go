package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDayNormalizes(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-10", "2024-01-10", true},
		{"2024-1-5", "2024-01-05", true}, // two encodings of the same day
		{"2024-13-01", "", false},
		{"10/01/2024", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		d, err := ParseDay(tc.in)
		if tc.ok {
			if err != nil || d.String() != tc.want {
				t.Fatalf("case %d: got %q err=%v, want %q", i, d, err, tc.want)
			}
		} else if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d: err = %v, want ErrInvalidDate for %q", i, err, tc.in)
		}
	}
}

func TestDayJSONRoundTrip(t *testing.T) {
	d := MustParseDay("2024-02-29")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-02-29"` {
		t.Fatalf("marshal got %s", b)
	}
	var back Day
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip: got %v want %v", back, d)
	}
}

func TestStartOfWeek(t *testing.T) {
	cases := []struct {
		day, monday string
	}{
		{"2024-01-10", "2024-01-08"}, // Wednesday
		{"2024-01-08", "2024-01-08"}, // Monday maps to itself
		{"2024-01-14", "2024-01-08"}, // Sunday closes the week
	}
	for i, tc := range cases {
		got := MustParseDay(tc.day).StartOfWeek()
		if got.String() != tc.monday {
			t.Fatalf("case %d: %s -> %s, want %s", i, tc.day, got, tc.monday)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := MustParseDay("2024-02-15").MonthBounds()
	if first.String() != "2024-02-01" || last.String() != "2024-02-29" {
		t.Fatalf("got [%s, %s]", first, last)
	}
}

func TestDayArithmetic(t *testing.T) {
	d := NewDay(2024, time.January, 31).AddDays(1)
	if d.String() != "2024-02-01" {
		t.Fatalf("AddDays rollover got %s", d)
	}
	if !MustParseDay("2024-01-01").Before(MustParseDay("2024-01-02")) {
		t.Fatalf("Before failed")
	}
}
