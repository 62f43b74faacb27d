package forecast

import (
	"reflect"
	"testing"
	"time"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/calendar"
)

func day(year int, month time.Month, d int) calendar.CivilDay {
	return calendar.NewCivilDay(year, month, d)
}

// TestClampHorizon verifies the supported horizon range
func TestClampHorizon(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, 7},
		{6, 7},
		{7, 7},
		{30, 30},
		{90, 90},
		{91, 90},
		{365, 90},
	}

	for _, tt := range tests {
		if got := ClampHorizon(tt.input); got != tt.expected {
			t.Errorf("ClampHorizon(%d) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

// TestProjectOverdraft verifies the minimum balance, its date and the
// warning status when the balance goes negative
func TestProjectOverdraft(t *testing.T) {
	today := calendar.NewLocalDay(2026, time.June, 1)
	items := []models.ScheduledItem{
		{Date: day(2026, 6, 11), Amount: -150000, Type: models.ItemExpense, Name: "Rent"},
	}

	report := Project(100000, items, 30, today)

	if report.MinBalance != -50000 {
		t.Errorf("min balance = %d, want -50000", report.MinBalance)
	}
	if !report.MinBalanceDate.Equal(day(2026, 6, 11)) {
		t.Errorf("min balance date = %v, want 2026-06-11", report.MinBalanceDate)
	}
	if report.Status != models.StatusWarning {
		t.Errorf("status = %s, want warning", report.Status)
	}
}

// TestProjectRunningBalanceAccumulates verifies the balance carries
// day-over-day across quiet days rather than resetting between points
func TestProjectRunningBalanceAccumulates(t *testing.T) {
	today := calendar.NewLocalDay(2026, time.June, 1)
	items := []models.ScheduledItem{
		{Date: day(2026, 6, 3), Amount: -10000, Type: models.ItemExpense, Name: "A"},
		{Date: day(2026, 6, 20), Amount: -10000, Type: models.ItemExpense, Name: "B"},
	}

	report := Project(100000, items, 30, today)

	var last *models.DailyForecastPoint
	for i := range report.Points {
		if report.Points[i].Date.Equal(day(2026, 6, 20)) {
			last = &report.Points[i]
		}
	}
	if last == nil {
		t.Fatal("no point emitted for the second expense day")
	}
	// Both expenses applied despite 16 quiet days in between.
	if last.RunningBalance != 80000 {
		t.Errorf("running balance on Jun 20 = %d, want 80000", last.RunningBalance)
	}
}

// TestProjectSampling verifies quiet days are emitted only on the
// day-of-month 1 and 15 anchors
func TestProjectSampling(t *testing.T) {
	today := calendar.NewLocalDay(2026, time.June, 1)
	items := []models.ScheduledItem{
		{Date: day(2026, 6, 10), Amount: 50000, Type: models.ItemIncome, Name: "Pay"},
	}

	report := Project(100000, items, 30, today)

	var gotDates []string
	for _, p := range report.Points {
		gotDates = append(gotDates, p.Date.String())
	}
	want := []string{"2026-06-01", "2026-06-10", "2026-06-15", "2026-07-01"}
	if !reflect.DeepEqual(gotDates, want) {
		t.Errorf("emitted dates %v, want %v", gotDates, want)
	}
}

// TestProjectSameDayNetting verifies same-day income and expenses are
// summed separately before netting
func TestProjectSameDayNetting(t *testing.T) {
	today := calendar.NewLocalDay(2026, time.June, 1)
	items := []models.ScheduledItem{
		{Date: day(2026, 6, 5), Amount: 300000, Type: models.ItemIncome, Name: "Pay"},
		{Date: day(2026, 6, 5), Amount: -120000, Type: models.ItemExpense, Name: "Rent"},
		{Date: day(2026, 6, 5), Amount: -30000, Type: models.ItemExpense, Name: "Power"},
	}

	report := Project(100000, items, 30, today)

	var point *models.DailyForecastPoint
	for i := range report.Points {
		if report.Points[i].Date.Equal(day(2026, 6, 5)) {
			point = &report.Points[i]
		}
	}
	if point == nil {
		t.Fatal("no point emitted for the activity day")
	}
	if point.ScheduledIncome != 300000 {
		t.Errorf("scheduled income = %d, want 300000", point.ScheduledIncome)
	}
	if point.ScheduledExpenses != -150000 {
		t.Errorf("scheduled expenses = %d, want -150000", point.ScheduledExpenses)
	}
	if point.NetChange != 150000 {
		t.Errorf("net change = %d, want 150000", point.NetChange)
	}
	if point.RunningBalance != 250000 {
		t.Errorf("running balance = %d, want 250000", point.RunningBalance)
	}
}

// TestProjectStatusCaution verifies dipping below 20% of the start flags
// caution without a negative crossing
func TestProjectStatusCaution(t *testing.T) {
	today := calendar.NewLocalDay(2026, time.June, 1)
	items := []models.ScheduledItem{
		{Date: day(2026, 6, 10), Amount: -85000, Type: models.ItemExpense, Name: "Big bill"},
	}

	report := Project(100000, items, 30, today)

	if report.MinBalance != 15000 {
		t.Errorf("min balance = %d, want 15000", report.MinBalance)
	}
	if report.Status != models.StatusCaution {
		t.Errorf("status = %s, want caution", report.Status)
	}
}

// TestProjectStatusHealthy verifies a comfortable forecast stays healthy
func TestProjectStatusHealthy(t *testing.T) {
	today := calendar.NewLocalDay(2026, time.June, 1)
	items := []models.ScheduledItem{
		{Date: day(2026, 6, 10), Amount: -50000, Type: models.ItemExpense, Name: "Bill"},
	}

	report := Project(100000, items, 30, today)

	if report.MinBalance != 50000 {
		t.Errorf("min balance = %d, want 50000", report.MinBalance)
	}
	if report.Status != models.StatusHealthy {
		t.Errorf("status = %s, want healthy", report.Status)
	}
}

// TestProjectIgnoresOutOfWindowItems verifies items before today or past
// the horizon never touch the balance
func TestProjectIgnoresOutOfWindowItems(t *testing.T) {
	today := calendar.NewLocalDay(2026, time.June, 1)
	items := []models.ScheduledItem{
		{Date: day(2026, 5, 20), Amount: -999999, Type: models.ItemExpense, Name: "Past"},
		{Date: day(2026, 8, 1), Amount: -999999, Type: models.ItemExpense, Name: "Beyond"},
	}

	report := Project(100000, items, 30, today)

	if report.MinBalance != 100000 {
		t.Errorf("min balance = %d, want untouched 100000", report.MinBalance)
	}
	if report.Status != models.StatusHealthy {
		t.Errorf("status = %s, want healthy", report.Status)
	}
}

// TestProjectIdempotent verifies identical input yields identical output
func TestProjectIdempotent(t *testing.T) {
	today := calendar.NewLocalDay(2026, time.June, 1)
	items := []models.ScheduledItem{
		{Date: day(2026, 6, 3), Amount: -10000, Type: models.ItemExpense, Name: "A"},
		{Date: day(2026, 6, 17), Amount: 25000, Type: models.ItemIncome, Name: "B"},
	}

	first := Project(100000, items, 45, today)
	second := Project(100000, items, 45, today)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated projection over the same input differed")
	}
}
