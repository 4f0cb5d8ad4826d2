package core

import (
	"fmt"
	"sort"
	"strings"
)

// WindowMode selects how a reporting window is anchored. The wire values match
// the filter options the form already uses.
type WindowMode string

const (
	WindowAll       WindowMode = "all"
	WindowToday     WindowMode = "today"
	WindowThisWeek  WindowMode = "thisWeek"
	WindowThisMonth WindowMode = "thisMonth"
	WindowCustom    WindowMode = "custom"
)

// Window is a calendar-day range used to narrow entries for reporting.
// Start and End are only meaningful for WindowCustom.
type Window struct {
	Mode  WindowMode
	Start Day
	End   Day
}

// ParseWindow builds a Window from raw query values. An empty mode defaults to
// "all". Custom bounds must each parse as dates when present; a custom window
// with either bound missing degrades to "all" rather than guessing a range.
func ParseWindow(mode, start, end string) (Window, error) {
	w := Window{Mode: WindowMode(strings.TrimSpace(mode))}
	if w.Mode == "" {
		w.Mode = WindowAll
	}
	switch w.Mode {
	case WindowAll, WindowToday, WindowThisWeek, WindowThisMonth:
		return w, nil
	case WindowCustom:
	default:
		return Window{}, fmt.Errorf("unknown window mode %q", mode)
	}

	var err error
	if s := strings.TrimSpace(start); s != "" {
		if w.Start, err = ParseDay(s); err != nil {
			return Window{}, ErrInvalidDate
		}
	}
	if s := strings.TrimSpace(end); s != "" {
		if w.End, err = ParseDay(s); err != nil {
			return Window{}, ErrInvalidDate
		}
	}
	return w, nil
}

// Bounds resolves the window to an inclusive [start, end] range anchored to
// today. ok=false means no filtering applies (the "all" mode, or a custom
// window missing a bound).
func (w Window) Bounds(today Day) (start, end Day, ok bool) {
	switch w.Mode {
	case WindowToday:
		return today, today, true
	case WindowThisWeek:
		start = today.StartOfWeek()
		return start, start.AddDays(6), true
	case WindowThisMonth:
		start, end = today.MonthBounds()
		return start, end, true
	case WindowCustom:
		if w.Start.IsZero() || w.End.IsZero() {
			return Day{}, Day{}, false
		}
		return w.Start, w.End, true
	default:
		return Day{}, Day{}, false
	}
}

// Contains reports whether d falls inside the window anchored to today.
// Bounds are inclusive on both ends. A zero d only ever matches an unbounded
// window.
func (w Window) Contains(d Day, today Day) bool {
	start, end, bounded := w.Bounds(today)
	if !bounded {
		return true
	}
	if d.IsZero() {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

// Filter returns the entries whose date falls in the window, sorted for
// display: newest date first, and within a date descending by ID so the order
// is reproducible regardless of insertion order.
func Filter(entries []Entry, w Window, today Day) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if w.Contains(e.Date, today) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[j].Date.Before(out[i].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Partition splits a filtered set into the income+adjustment view and the
// expense view. Both views preserve the input order, so they stay consistent
// with the date window the caller filtered by.
func Partition(entries []Entry) (credits, debits []Entry) {
	for _, e := range entries {
		if e.Kind.Credits() {
			credits = append(credits, e)
		} else {
			debits = append(debits, e)
		}
	}
	return credits, debits
}
