package projection

import (
	"testing"
	"time"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/calendar"
)

func day(year int, month time.Month, d int) calendar.CivilDay {
	return calendar.NewCivilDay(year, month, d)
}

// TestOccurrences verifies horizon windowing and calendar stepping
func TestOccurrences(t *testing.T) {
	t.Run("monthly within window", func(t *testing.T) {
		dates, err := Occurrences(day(2026, 1, 31), calendar.Monthly, day(2026, 1, 1), day(2026, 4, 30))
		if err != nil {
			t.Fatalf("Occurrences failed: %v", err)
		}
		want := []string{"2026-01-31", "2026-02-28", "2026-03-28", "2026-04-28"}
		if len(dates) != len(want) {
			t.Fatalf("got %d dates, want %d", len(dates), len(want))
		}
		for i, w := range want {
			if dates[i].String() != w {
				t.Errorf("date[%d] = %s, want %s", i, dates[i], w)
			}
		}
	})

	t.Run("start before window", func(t *testing.T) {
		dates, err := Occurrences(day(2025, 12, 1), calendar.Weekly, day(2026, 1, 1), day(2026, 1, 15))
		if err != nil {
			t.Fatalf("Occurrences failed: %v", err)
		}
		// Dec 1 + weekly: Jan 5 and Jan 12 fall in the window.
		want := []string{"2026-01-05", "2026-01-12"}
		if len(dates) != len(want) {
			t.Fatalf("got %v, want %v", dates, want)
		}
		for i, w := range want {
			if dates[i].String() != w {
				t.Errorf("date[%d] = %s, want %s", i, dates[i], w)
			}
		}
	})

	t.Run("start after window is empty", func(t *testing.T) {
		dates, err := Occurrences(day(2026, 6, 1), calendar.Monthly, day(2026, 1, 1), day(2026, 1, 31))
		if err != nil {
			t.Fatalf("Occurrences failed: %v", err)
		}
		if len(dates) != 0 {
			t.Errorf("got %v, want none", dates)
		}
	})

	t.Run("invalid frequency", func(t *testing.T) {
		if _, err := Occurrences(day(2026, 1, 1), "bogus", day(2026, 1, 1), day(2026, 2, 1)); err == nil {
			t.Error("expected error for unknown frequency")
		}
	})

	t.Run("inverted window", func(t *testing.T) {
		if _, err := Occurrences(day(2026, 1, 1), calendar.Daily, day(2026, 2, 1), day(2026, 1, 1)); err == nil {
			t.Error("expected error for inverted window")
		}
	})
}

// TestNextN verifies occurrence counting
func TestNextN(t *testing.T) {
	dates, err := NextN(day(2026, 1, 15), calendar.Every3Months, 4)
	if err != nil {
		t.Fatalf("NextN failed: %v", err)
	}
	want := []string{"2026-01-15", "2026-04-15", "2026-07-15", "2026-10-15"}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates, want %d", len(dates), len(want))
	}
	for i, w := range want {
		if dates[i].String() != w {
			t.Errorf("date[%d] = %s, want %s", i, dates[i], w)
		}
	}
}

// TestMonthlyEquivalent pins the fixed day-count cost approximation
func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		freq     calendar.Frequency
		expected int64
	}{
		{"monthly unchanged", 30000, calendar.Monthly, 30000},
		{"weekly", 7000, calendar.Weekly, 30000},
		{"every other week", 14000, calendar.EveryOtherWeek, 30000},
		{"quarterly", 90000, calendar.Every3Months, 30000},
		{"yearly", 365000, calendar.Yearly, 30000},
		{"daily", 1000, calendar.Daily, 30000},
		{"unknown is zero", 1000, "bogus", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthlyEquivalent(tt.amount, tt.freq); got != tt.expected {
				t.Errorf("MonthlyEquivalent(%d, %s) = %d, want %d", tt.amount, tt.freq, got, tt.expected)
			}
		})
	}
}

// TestAnnualEquivalent pins the annual counterpart
func TestAnnualEquivalent(t *testing.T) {
	if got := AnnualEquivalent(1000, calendar.Daily); got != 365000 {
		t.Errorf("AnnualEquivalent daily = %d, want 365000", got)
	}
	if got := AnnualEquivalent(30000, calendar.Monthly); got != 365000 {
		t.Errorf("AnnualEquivalent monthly = %d, want 365000", got)
	}
	if got := AnnualEquivalent(1000, "bogus"); got != 0 {
		t.Errorf("AnnualEquivalent unknown = %d, want 0", got)
	}
}

// TestExpandScheduled verifies deleted entries are skipped and items carry
// the right type and label
func TestExpandScheduled(t *testing.T) {
	scheduled := []models.ScheduledTransaction{
		{ID: "s1", NextDate: day(2026, 1, 5), Amount: -50000, Frequency: calendar.Monthly, PayeeName: "Rent"},
		{ID: "s2", NextDate: day(2026, 1, 2), Amount: 250000, Frequency: calendar.EveryOtherWeek, PayeeName: "Pay"},
		{ID: "s3", NextDate: day(2026, 1, 1), Amount: -9000, Frequency: calendar.Weekly, PayeeName: "Gone", Deleted: true},
	}

	items, err := ExpandScheduled(scheduled, day(2026, 1, 1), day(2026, 1, 31))
	if err != nil {
		t.Fatalf("ExpandScheduled failed: %v", err)
	}

	// Rent once (Jan 5), pay on Jan 2, 16, 30; the deleted entry contributes
	// nothing.
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	for _, item := range items {
		if item.Name == "Gone" {
			t.Error("deleted scheduled transaction was expanded")
		}
		switch item.Name {
		case "Rent":
			if item.Type != models.ItemExpense || item.Amount != -50000 {
				t.Errorf("rent item = %+v", item)
			}
			if item.FrequencyLabel != "monthly" {
				t.Errorf("rent label = %q, want monthly", item.FrequencyLabel)
			}
		case "Pay":
			if item.Type != models.ItemIncome || item.Amount != 250000 {
				t.Errorf("pay item = %+v", item)
			}
		}
	}
}

// TestExpandDetected verifies unknown next dates are skipped and amounts
// are negated expense magnitudes
func TestExpandDetected(t *testing.T) {
	detected := []models.RecurringPayment{
		{PayeeID: "p1", PayeeName: "Netflix", FrequencyClass: models.ClassMonthly,
			AverageAmount: 15990, NextExpected: day(2026, 1, 10)},
		{PayeeID: "p2", PayeeName: "Stale", FrequencyClass: models.ClassMonthly,
			AverageAmount: 9000}, // zero NextExpected
	}

	items, err := ExpandDetected(detected, day(2026, 1, 1), day(2026, 3, 15))
	if err != nil {
		t.Fatalf("ExpandDetected failed: %v", err)
	}

	// Jan 10, Feb 10, Mar 10.
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for _, item := range items {
		if item.Name != "Netflix" {
			t.Errorf("unexpected item %+v", item)
		}
		if item.Amount != -15990 || item.Type != models.ItemExpense {
			t.Errorf("item %+v should be an expense of -15990", item)
		}
	}
}
