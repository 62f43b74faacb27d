package calendar

import "fmt"

// Frequency is one of the closed set of recurrence period codes understood by
// the scheduler and the projector.
type Frequency string

const (
	Daily           Frequency = "daily"
	Weekly          Frequency = "weekly"
	EveryOtherWeek  Frequency = "everyOtherWeek"
	TwiceAMonth     Frequency = "twiceAMonth"
	Every4Weeks     Frequency = "every4Weeks"
	Monthly         Frequency = "monthly"
	EveryOtherMonth Frequency = "everyOtherMonth"
	Every3Months    Frequency = "every3Months"
	Every4Months    Frequency = "every4Months"
	TwiceAYear      Frequency = "twiceAYear"
	Yearly          Frequency = "yearly"
	EveryOtherYear  Frequency = "everyOtherYear"
)

// frequencySteps maps each code to its calendar-field increment. Day-based
// codes advance a fixed number of days; month-based codes advance calendar
// months with month-end clamping (see CivilDay.AddMonths).
var frequencySteps = map[Frequency]struct {
	days   int
	months int
}{
	Daily:           {days: 1},
	Weekly:          {days: 7},
	EveryOtherWeek:  {days: 14},
	TwiceAMonth:     {days: 15},
	Every4Weeks:     {days: 28},
	Monthly:         {months: 1},
	EveryOtherMonth: {months: 2},
	Every3Months:    {months: 3},
	Every4Months:    {months: 4},
	TwiceAYear:      {months: 6},
	Yearly:          {months: 12},
	EveryOtherYear:  {months: 24},
}

// approxStepDays maps each code to the fixed day count used when estimating
// a monthly or annual cost figure for display. These are intentionally not
// calendar-accurate (monthly=30, quarterly=90); the drift is acceptable for
// the 30-90 day windows cost estimates are shown over, and tests pin the
// constants. Do not replace them with calendar stepping: actual future
// occurrence dates use AddCalendarStep instead.
var approxStepDays = map[Frequency]int{
	Daily:           1,
	Weekly:          7,
	EveryOtherWeek:  14,
	TwiceAMonth:     15,
	Every4Weeks:     28,
	Monthly:         30,
	EveryOtherMonth: 60,
	Every3Months:    90,
	Every4Months:    120,
	TwiceAYear:      180,
	Yearly:          365,
	EveryOtherYear:  730,
}

// ParseFrequency validates a frequency code string.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if _, ok := frequencySteps[f]; !ok {
		return "", fmt.Errorf("unknown frequency code %q", s)
	}
	return f, nil
}

// Valid reports whether f is one of the known codes.
func (f Frequency) Valid() bool {
	_, ok := frequencySteps[f]
	return ok
}

// ApproxDays returns the fixed day-count approximation of one period,
// or 0 for an unknown code.
func (f Frequency) ApproxDays() int {
	return approxStepDays[f]
}

// AddCalendarStep advances a day by one period of the given frequency using
// true calendar increments: monthly moves the month field, not "+30 days".
func AddCalendarStep(d CivilDay, f Frequency) (CivilDay, error) {
	step, ok := frequencySteps[f]
	if !ok {
		return CivilDay{}, fmt.Errorf("unknown frequency code %q", f)
	}
	if step.months != 0 {
		return d.AddMonths(step.months), nil
	}
	return d.AddDays(step.days), nil
}
