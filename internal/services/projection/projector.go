// Package projection expands recurring items into concrete future
// occurrence dates within a horizon.
//
// Two distinct "monthly" semantics live here on purpose. Actual occurrence
// dates use true calendar stepping (calendar.AddCalendarStep), so a monthly
// item on the 31st lands on month ends correctly. Cost equivalents use
// fixed day-count approximations (monthly=30, quarterly=90) instead; the
// drift is acceptable over the 30-90 day windows they are displayed for,
// and the constants are pinned by tests. Unifying the two would silently
// change the forecast horizon guarantees.
package projection

import (
	"fmt"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/calendar"
	"ledgerlens/internal/services/money"
)

// maxOccurrences bounds expansion so a malformed start date can never spin
// the loop; daily over a 90-day horizon needs 91.
const maxOccurrences = 400

// Occurrences generates every occurrence date within [from, to] inclusive
// for an item that first occurs on start and repeats at freq.
func Occurrences(start calendar.CivilDay, freq calendar.Frequency, from, to calendar.CivilDay) ([]calendar.CivilDay, error) {
	if !freq.Valid() {
		return nil, fmt.Errorf("unknown frequency code %q", freq)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("horizon end %s precedes start %s", to, from)
	}

	var dates []calendar.CivilDay
	d := start
	for i := 0; i < maxOccurrences && !d.After(to); i++ {
		if !d.Before(from) {
			dates = append(dates, d)
		}
		next, err := calendar.AddCalendarStep(d, freq)
		if err != nil {
			return nil, err
		}
		d = next
	}
	return dates, nil
}

// NextN generates the next n occurrence dates starting at start.
func NextN(start calendar.CivilDay, freq calendar.Frequency, n int) ([]calendar.CivilDay, error) {
	if !freq.Valid() {
		return nil, fmt.Errorf("unknown frequency code %q", freq)
	}
	if n > maxOccurrences {
		n = maxOccurrences
	}
	dates := make([]calendar.CivilDay, 0, n)
	d := start
	for i := 0; i < n; i++ {
		dates = append(dates, d)
		next, err := calendar.AddCalendarStep(d, freq)
		if err != nil {
			return nil, err
		}
		d = next
	}
	return dates, nil
}

// MonthlyEquivalent estimates the monthly cost of an amount recurring at
// freq, using the fixed day-count approximation (not calendar stepping).
func MonthlyEquivalent(amount int64, freq calendar.Frequency) int64 {
	days := freq.ApproxDays()
	if days == 0 {
		return 0
	}
	return money.MultiplyRound(amount, 30.0/float64(days))
}

// AnnualEquivalent estimates the annual cost of an amount recurring at
// freq, using the same fixed day-count approximation.
func AnnualEquivalent(amount int64, freq calendar.Frequency) int64 {
	days := freq.ApproxDays()
	if days == 0 {
		return 0
	}
	return money.MultiplyRound(amount, 365.0/float64(days))
}

// classFrequencies maps a detected frequency class onto the scheduling code
// used to project its future occurrences. Irregular projects as monthly,
// matching its conservative cost treatment.
var classFrequencies = map[models.FrequencyClass]calendar.Frequency{
	models.ClassWeekly:    calendar.Weekly,
	models.ClassBiweekly:  calendar.EveryOtherWeek,
	models.ClassMonthly:   calendar.Monthly,
	models.ClassQuarterly: calendar.Every3Months,
	models.ClassAnnual:    calendar.Yearly,
	models.ClassIrregular: calendar.Monthly,
}

// ExpandScheduled projects the ledger's user-declared scheduled
// transactions into dated items within [from, to].
func ExpandScheduled(scheduled []models.ScheduledTransaction, from, to calendar.CivilDay) ([]models.ScheduledItem, error) {
	var items []models.ScheduledItem
	for _, s := range scheduled {
		if s.Deleted {
			continue
		}
		dates, err := Occurrences(s.NextDate, s.Frequency, from, to)
		if err != nil {
			return nil, fmt.Errorf("scheduled transaction %s: %w", s.ID, err)
		}
		for _, d := range dates {
			items = append(items, models.ScheduledItem{
				Date:           d,
				Amount:         s.Amount,
				Type:           itemType(s.Amount),
				FrequencyLabel: string(s.Frequency),
				Name:           s.PayeeName,
			})
		}
	}
	return items, nil
}

// ExpandDetected projects detected recurring payments into dated expense
// items within [from, to]. Detections without a plausible next date are
// skipped: an unknown anchor cannot be projected.
func ExpandDetected(detected []models.RecurringPayment, from, to calendar.CivilDay) ([]models.ScheduledItem, error) {
	var items []models.ScheduledItem
	for _, r := range detected {
		if r.NextExpected.IsZero() {
			continue
		}
		dates, err := Occurrences(r.NextExpected, classFrequencies[r.FrequencyClass], from, to)
		if err != nil {
			return nil, fmt.Errorf("detected recurrence for payee %s: %w", r.PayeeID, err)
		}
		for _, d := range dates {
			items = append(items, models.ScheduledItem{
				Date:           d,
				Amount:         -r.AverageAmount,
				Type:           models.ItemExpense,
				FrequencyLabel: string(r.FrequencyClass),
				Name:           r.PayeeName,
			})
		}
	}
	return items, nil
}

func itemType(amount int64) models.ItemType {
	if amount > 0 {
		return models.ItemIncome
	}
	return models.ItemExpense
}
