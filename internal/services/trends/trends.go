// Package trends fits linear spending trends to short monthly series per
// category and classifies their direction.
package trends

import (
	"sort"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/calendar"
	"ledgerlens/internal/services/money"
)

const (
	// DefaultWindowMonths is the trend window when the caller does not
	// choose one.
	DefaultWindowMonths = 6

	minWindowMonths = 2
	maxWindowMonths = 24

	// classifyPercent is the +/- band outside which a trend stops being
	// "stable".
	classifyPercent = 10.0
)

// ClampWindow forces a month window into the supported range, with 0
// meaning the default.
func ClampWindow(months int) int {
	if months == 0 {
		return DefaultWindowMonths
	}
	if months < minWindowMonths {
		return minWindowMonths
	}
	if months > maxWindowMonths {
		return maxWindowMonths
	}
	return months
}

// Analyze fits a trend to each category's monthly outflow totals over the
// window of months ending with today's month. Months without activity count
// as zero; categories with zero spend across the whole window have nothing
// to trend and are skipped.
func Analyze(ts *models.TransactionSet, windowMonths int, today calendar.LocalDay) models.TrendReport {
	windowMonths = ClampWindow(windowMonths)
	monthKeys := windowKeys(today, windowMonths)

	report := models.TrendReport{}
	groups := ts.Outflows().GroupByCategory()

	categoryIDs := make([]string, 0, len(groups))
	for id := range groups {
		categoryIDs = append(categoryIDs, id)
	}
	sort.Strings(categoryIDs)

	for _, id := range categoryIDs {
		group := groups[id]
		totals := group.MonthlyTotals()

		series := make([]models.MonthlyAmount, len(monthKeys))
		var windowTotal int64
		for i, key := range monthKeys {
			// Outflows are negative; spending series are magnitudes.
			amount := -totals[key]
			series[i] = models.MonthlyAmount{Month: key, Amount: amount}
			windowTotal += amount
		}

		if windowTotal == 0 {
			report.SkippedCategories++
			continue
		}
		report.AnalyzedCategories++

		slope, percent, class := FitSeries(seriesAmounts(series))
		report.Items = append(report.Items, models.CategoryTrend{
			CategoryID:     id,
			CategoryName:   group.Transactions[len(group.Transactions)-1].CategoryName,
			MonthlySeries:  series,
			SlopePerMonth:  slope,
			TrendPercent:   percent,
			Classification: class,
		})
	}

	sort.Slice(report.Items, func(i, j int) bool {
		a, b := report.Items[i], report.Items[j]
		if a.TrendPercent != b.TrendPercent {
			return a.TrendPercent > b.TrendPercent
		}
		return a.CategoryID < b.CategoryID
	})
	return report
}

// FitSeries computes the ordinary-least-squares slope of a monthly series
// (index 0..n-1 versus amount), the slope normalized to a percentage of the
// series average, and the direction classification. A flat or degenerate
// series yields slope 0 and "stable"; no NaN can escape.
func FitSeries(series []int64) (slope, trendPercent float64, class models.TrendClass) {
	n := float64(len(series))
	if len(series) < 2 {
		return 0, 0, models.TrendStable
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range series {
		x := float64(i)
		y := float64(v)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	slope = money.Ratio(n*sumXY-sumX*sumY, n*sumXX-sumX*sumX)
	avg := sumY / n
	trendPercent = money.Ratio(slope, avg) * 100

	switch {
	case trendPercent > classifyPercent:
		class = models.TrendIncreasing
	case trendPercent < -classifyPercent:
		class = models.TrendDecreasing
	default:
		class = models.TrendStable
	}
	return slope, trendPercent, class
}

// windowKeys returns the month keys of the window, oldest first, ending
// with today's month.
func windowKeys(today calendar.LocalDay, months int) []string {
	end := calendar.NewCivilDay(today.Year(), today.Month(), 1)
	keys := make([]string, months)
	for i := 0; i < months; i++ {
		keys[i] = end.AddMonths(i - months + 1).MonthKey()
	}
	return keys
}

func seriesAmounts(series []models.MonthlyAmount) []int64 {
	amounts := make([]int64, len(series))
	for i, m := range series {
		amounts[i] = m.Amount
	}
	return amounts
}
