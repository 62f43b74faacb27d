package calendar

import (
	"testing"
	"time"
)

// TestParseFrequency verifies the closed code set
func TestParseFrequency(t *testing.T) {
	valid := []string{
		"daily", "weekly", "everyOtherWeek", "twiceAMonth", "every4Weeks",
		"monthly", "everyOtherMonth", "every3Months", "every4Months",
		"twiceAYear", "yearly", "everyOtherYear",
	}
	for _, s := range valid {
		if _, err := ParseFrequency(s); err != nil {
			t.Errorf("ParseFrequency(%q) failed: %v", s, err)
		}
	}

	for _, s := range []string{"", "fortnightly", "MONTHLY", "bi-weekly"} {
		if _, err := ParseFrequency(s); err == nil {
			t.Errorf("ParseFrequency(%q) succeeded, want error", s)
		}
	}
}

// TestApproxDays pins the fixed day-count approximation constants
func TestApproxDays(t *testing.T) {
	tests := []struct {
		freq     Frequency
		expected int
	}{
		{Daily, 1},
		{Weekly, 7},
		{EveryOtherWeek, 14},
		{TwiceAMonth, 15},
		{Every4Weeks, 28},
		{Monthly, 30},
		{EveryOtherMonth, 60},
		{Every3Months, 90},
		{Every4Months, 120},
		{TwiceAYear, 180},
		{Yearly, 365},
		{EveryOtherYear, 730},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			if got := tt.freq.ApproxDays(); got != tt.expected {
				t.Errorf("ApproxDays() = %d, want %d", got, tt.expected)
			}
		})
	}

	if got := Frequency("bogus").ApproxDays(); got != 0 {
		t.Errorf("unknown code ApproxDays() = %d, want 0", got)
	}
}

// TestAddCalendarStep verifies month-based codes use true calendar stepping
func TestAddCalendarStep(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		freq     Frequency
		expected string
	}{
		{"daily", "2026-02-28", Daily, "2026-03-01"},
		{"weekly", "2026-01-01", Weekly, "2026-01-08"},
		{"every other week", "2026-01-01", EveryOtherWeek, "2026-01-15"},
		{"monthly mid-month", "2026-01-15", Monthly, "2026-02-15"},
		{"monthly clamps month end", "2026-01-31", Monthly, "2026-02-28"},
		{"monthly clamps leap february", "2024-01-31", Monthly, "2024-02-29"},
		{"quarterly", "2026-01-31", Every3Months, "2026-04-30"},
		{"yearly leap day", "2024-02-29", Yearly, "2025-02-28"},
		{"every other year", "2026-06-01", EveryOtherYear, "2028-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddCalendarStep(mustParse(t, tt.start), tt.freq)
			if err != nil {
				t.Fatalf("AddCalendarStep failed: %v", err)
			}
			if got.String() != tt.expected {
				t.Errorf("%s + %s = %s, want %s", tt.start, tt.freq, got, tt.expected)
			}
		})
	}

	t.Run("unknown code", func(t *testing.T) {
		if _, err := AddCalendarStep(NewCivilDay(2026, time.January, 1), "bogus"); err == nil {
			t.Error("expected error for unknown frequency code")
		}
	})
}
