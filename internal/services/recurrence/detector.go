// Package recurrence infers recurring payments and income from irregular
// transaction history. Detection is a pure function of the snapshot handed
// in: no randomness, no external state, identical input yields identical
// output.
package recurrence

import (
	"math"
	"sort"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/calendar"
	"ledgerlens/internal/services/money"
)

const (
	// DefaultMinOccurrences is how many qualifying transactions a payee
	// needs before its history is considered at all.
	DefaultMinOccurrences = 3

	minOccurrencesFloor   = 2
	minOccurrencesCeiling = 10

	highConfidenceCoV   = 0.15
	mediumConfidenceCoV = 0.35
)

// monthlyMultipliers converts an average per-occurrence amount into a
// monthly-equivalent cost per frequency class. Irregular is treated as
// monthly, the conservative choice.
var monthlyMultipliers = map[models.FrequencyClass]float64{
	models.ClassWeekly:    4.33,
	models.ClassBiweekly:  2.17,
	models.ClassMonthly:   1,
	models.ClassQuarterly: 1.0 / 3,
	models.ClassAnnual:    1.0 / 12,
	models.ClassIrregular: 1,
}

// Options tunes detection. The zero value means defaults.
type Options struct {
	// MinOccurrences is clamped to [2, 10]; 0 means the default of 3.
	MinOccurrences int
}

func (o Options) minOccurrences() int {
	n := o.MinOccurrences
	if n == 0 {
		n = DefaultMinOccurrences
	}
	if n < minOccurrencesFloor {
		n = minOccurrencesFloor
	}
	if n > minOccurrencesCeiling {
		n = minOccurrencesCeiling
	}
	return n
}

// DetectPayments finds recurring outflows per payee. Transfers and deleted
// transactions must already be excluded by the caller (ForAnalysis).
func DetectPayments(ts *models.TransactionSet, today calendar.CivilDay, opts Options) models.RecurrenceReport {
	return detect(ts.Outflows().GroupByPayee(), today, opts)
}

// DetectIncome finds recurring inflows per payee, using the same interval
// analysis as payment detection.
func DetectIncome(ts *models.TransactionSet, today calendar.CivilDay, opts Options) models.RecurrenceReport {
	return detect(ts.Inflows().GroupByPayee(), today, opts)
}

func detect(groups map[string]*models.TransactionSet, today calendar.CivilDay, opts Options) models.RecurrenceReport {
	minOcc := opts.minOccurrences()
	report := models.RecurrenceReport{}

	// Sorted key order keeps output byte-identical across runs.
	payeeIDs := make([]string, 0, len(groups))
	for id := range groups {
		payeeIDs = append(payeeIDs, id)
	}
	sort.Strings(payeeIDs)

	for _, id := range payeeIDs {
		group := groups[id]
		if group.Len() < minOcc {
			report.SkippedPayees++
			continue
		}
		report.AnalyzedPayees++
		if item, ok := analyzePayee(id, group, today); ok {
			report.Items = append(report.Items, item)
		}
	}

	sort.Slice(report.Items, func(i, j int) bool {
		a, b := report.Items[i], report.Items[j]
		if a.MonthlyCost != b.MonthlyCost {
			return a.MonthlyCost > b.MonthlyCost
		}
		return a.PayeeID < b.PayeeID
	})
	return report
}

// analyzePayee runs interval analysis over one payee's date-sorted history.
// It returns false when the history is noise rather than a pattern.
func analyzePayee(payeeID string, group *models.TransactionSet, today calendar.CivilDay) (models.RecurringPayment, bool) {
	dates := group.Dates()
	intervals := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		intervals = append(intervals, float64(calendar.DaysBetween(dates[i-1], dates[i])))
	}

	mean := meanOf(intervals)
	stdDev := populationStdDev(intervals, mean)
	cov := money.Ratio(stdDev, mean)

	confidence := classifyConfidence(cov)
	class := classifyInterval(mean)
	if class == models.ClassIrregular && confidence == models.ConfidenceLow {
		// Irregular spacing with high variance is noise, not a pattern.
		return models.RecurringPayment{}, false
	}

	var amountTotal int64
	for _, a := range group.Amounts() {
		amountTotal += money.Abs(a)
	}
	avgAmount := money.RoundHalfUp(float64(amountTotal) / float64(group.Len()))
	monthlyCost := money.MultiplyRound(avgAmount, monthlyMultipliers[class])

	lastDate := dates[len(dates)-1]
	return models.RecurringPayment{
		PayeeID:          payeeID,
		PayeeName:        group.Transactions[len(group.Transactions)-1].PayeeName,
		FrequencyClass:   class,
		Confidence:       confidence,
		Occurrences:      group.Len(),
		MeanIntervalDays: mean,
		IntervalStdDev:   stdDev,
		AverageAmount:    avgAmount,
		MonthlyCost:      monthlyCost,
		LastDate:         lastDate,
		NextExpected:     nextExpected(lastDate, mean, today),
	}, true
}

// classifyConfidence bands the coefficient of variation. The boundaries are
// exclusive on the low side: exactly 0.15 is medium and exactly 0.35 is low.
func classifyConfidence(cov float64) models.Confidence {
	switch {
	case cov < highConfidenceCoV:
		return models.ConfidenceHigh
	case cov < mediumConfidenceCoV:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// classifyInterval bands the mean day interval into a frequency class.
func classifyInterval(meanDays float64) models.FrequencyClass {
	switch {
	case meanDays >= 5 && meanDays <= 9:
		return models.ClassWeekly
	case meanDays >= 12 && meanDays <= 17:
		return models.ClassBiweekly
	case meanDays >= 25 && meanDays <= 35:
		return models.ClassMonthly
	case meanDays >= 80 && meanDays <= 100:
		return models.ClassQuarterly
	case meanDays >= 340 && meanDays <= 390:
		return models.ClassAnnual
	default:
		return models.ClassIrregular
	}
}

// nextExpected projects the next occurrence as last + mean interval. If that
// already passed, one more interval is tried; past that the projection is
// reported as unknown (the zero day) rather than an implausible
// multi-interval guess.
func nextExpected(last calendar.CivilDay, meanDays float64, today calendar.CivilDay) calendar.CivilDay {
	step := int(money.RoundHalfUp(meanDays))
	if step <= 0 {
		return calendar.CivilDay{}
	}
	next := last.AddDays(step)
	if next.Before(today) {
		next = next.AddDays(step)
	}
	if next.Before(today) {
		return calendar.CivilDay{}
	}
	return next
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev is the population (not sample) standard deviation.
func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
