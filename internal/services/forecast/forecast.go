// Package forecast builds day-by-day running-balance timelines from a
// starting balance and a set of projected occurrences.
package forecast

import (
	"ledgerlens/internal/models"
	"ledgerlens/internal/services/calendar"
	"ledgerlens/internal/services/money"
)

const (
	// MinHorizonDays and MaxHorizonDays bound the forecast window.
	MinHorizonDays = 7
	MaxHorizonDays = 90

	// cautionFraction flags forecasts whose minimum dips below this share
	// of the starting balance.
	cautionFraction = 20.0
)

// ClampHorizon forces a horizon into the supported range.
func ClampHorizon(days int) int {
	if days < MinHorizonDays {
		return MinHorizonDays
	}
	if days > MaxHorizonDays {
		return MaxHorizonDays
	}
	return days
}

// Project accumulates scheduled items into a running balance, one calendar
// day at a time from today through the horizon end. The accumulation covers
// every day; the emitted series is only a sampling of it (days with
// activity, plus day-of-month 1 and 15 as anchors), so a quiet day still
// moves the invisible balance forward unchanged.
func Project(startingBalance int64, items []models.ScheduledItem, horizonDays int, today calendar.LocalDay) models.ForecastReport {
	horizonDays = ClampHorizon(horizonDays)
	start := today.Civil()

	// Per-day income/expense sums, keyed by day offset from today.
	incomeByDay := make(map[int]int64)
	expensesByDay := make(map[int]int64)
	for _, item := range items {
		offset := calendar.DaysBetween(start, item.Date)
		if offset < 0 || offset > horizonDays {
			continue
		}
		if item.Amount > 0 {
			incomeByDay[offset] += item.Amount
		} else {
			expensesByDay[offset] += item.Amount
		}
	}

	report := models.ForecastReport{
		StartingBalance: startingBalance,
		HorizonDays:     horizonDays,
		Status:          models.StatusHealthy,
	}

	running := startingBalance
	minBalance := int64(0)
	minDate := calendar.CivilDay{}
	everNegative := false

	for offset := 0; offset <= horizonDays; offset++ {
		day := start.AddDays(offset)
		income := incomeByDay[offset]
		expenses := expensesByDay[offset]
		net := income + expenses
		running += net

		if minDate.IsZero() || running < minBalance {
			minBalance = running
			minDate = day
		}
		if running < 0 {
			everNegative = true
		}

		hasActivity := income != 0 || expenses != 0
		if hasActivity || day.Day() == 1 || day.Day() == 15 {
			report.Points = append(report.Points, models.DailyForecastPoint{
				Date:              day,
				ScheduledIncome:   income,
				ScheduledExpenses: expenses,
				NetChange:         net,
				RunningBalance:    running,
			})
		}
	}

	report.MinBalance = minBalance
	report.MinBalanceDate = minDate

	switch {
	case everNegative:
		report.Status = models.StatusWarning
	case startingBalance > 0 && money.PercentOf(minBalance, startingBalance) < cautionFraction:
		report.Status = models.StatusCaution
	}
	return report
}
