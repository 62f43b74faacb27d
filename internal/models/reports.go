package models

import (
	"ledgerlens/internal/services/calendar"
)

// Confidence grades how regular a detected recurrence's intervals are.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// FrequencyClass is the coarse period classification assigned by the
// recurrence detector (distinct from calendar.Frequency, which is the
// ledger's exact scheduling code).
type FrequencyClass string

const (
	ClassWeekly    FrequencyClass = "weekly"
	ClassBiweekly  FrequencyClass = "biweekly"
	ClassMonthly   FrequencyClass = "monthly"
	ClassQuarterly FrequencyClass = "quarterly"
	ClassAnnual    FrequencyClass = "annual"
	ClassIrregular FrequencyClass = "irregular"
)

// RecurringPayment is one detected recurring payment or income source.
// Amounts are un-rounded minor units; formatting belongs to the caller.
type RecurringPayment struct {
	PayeeID          string            `json:"payee_id"`
	PayeeName        string            `json:"payee_name"`
	FrequencyClass   FrequencyClass    `json:"frequency"`
	Confidence       Confidence        `json:"confidence"`
	Occurrences      int               `json:"occurrences"`
	MeanIntervalDays float64           `json:"mean_interval_days"`
	IntervalStdDev   float64           `json:"interval_std_dev"`
	AverageAmount    int64             `json:"average_amount"`
	MonthlyCost      int64             `json:"monthly_cost"`
	LastDate         calendar.CivilDay `json:"last_date"`
	// NextExpected is the zero day when no plausible next date exists;
	// it marshals as null rather than a multi-interval guess.
	NextExpected calendar.CivilDay `json:"next_expected"`
}

// RecurrenceReport is the detector's output across all payees, with the
// analyzable-versus-skipped accounting the summary requires.
type RecurrenceReport struct {
	Items          []RecurringPayment `json:"items"`
	AnalyzedPayees int                `json:"analyzed_payees"`
	SkippedPayees  int                `json:"skipped_payees"`
}

// ItemType says which direction a scheduled occurrence moves money.
type ItemType string

const (
	ItemIncome  ItemType = "income"
	ItemExpense ItemType = "expense"
)

// ScheduledItem is a single projected future occurrence of a recurring
// item, either user-declared in the ledger or detected from history.
// Its date always falls within [today, horizon end].
type ScheduledItem struct {
	Date           calendar.CivilDay `json:"date"`
	Amount         int64             `json:"amount"`
	Type           ItemType          `json:"type"`
	FrequencyLabel string            `json:"frequency"`
	Name           string            `json:"name"`
}

// DailyForecastPoint is one emitted day of a cash-flow forecast.
type DailyForecastPoint struct {
	Date              calendar.CivilDay `json:"date"`
	ScheduledIncome   int64             `json:"scheduled_income"`
	ScheduledExpenses int64             `json:"scheduled_expenses"`
	NetChange         int64             `json:"net_change"`
	RunningBalance    int64             `json:"running_balance"`
}

// ForecastStatus classifies the risk level of a forecast window.
type ForecastStatus string

const (
	StatusHealthy ForecastStatus = "healthy"
	StatusCaution ForecastStatus = "caution"
	StatusWarning ForecastStatus = "warning"
)

// ForecastReport is the day-by-day running-balance timeline with its
// minimum and a risk classification.
type ForecastReport struct {
	StartingBalance int64                `json:"starting_balance"`
	HorizonDays     int                  `json:"horizon_days"`
	Points          []DailyForecastPoint `json:"points"`
	MinBalance      int64                `json:"min_balance"`
	MinBalanceDate  calendar.CivilDay    `json:"min_balance_date"`
	Status          ForecastStatus       `json:"status"`
}

// TrendClass is the direction classification of a category's spending trend.
type TrendClass string

const (
	TrendIncreasing TrendClass = "increasing"
	TrendDecreasing TrendClass = "decreasing"
	TrendStable     TrendClass = "stable"
)

// MonthlyAmount is one point of a category's monthly spending series.
type MonthlyAmount struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

// CategoryTrend is the fitted linear trend for one category's monthly
// spending, oldest month first.
type CategoryTrend struct {
	CategoryID     string          `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	MonthlySeries  []MonthlyAmount `json:"monthly_series"`
	SlopePerMonth  float64         `json:"slope_per_month"`
	TrendPercent   float64         `json:"trend_percent"`
	Classification TrendClass      `json:"classification"`
}

// TrendReport is the trend analysis across all categories.
type TrendReport struct {
	Items              []CategoryTrend `json:"items"`
	AnalyzedCategories int             `json:"analyzed_categories"`
	SkippedCategories  int             `json:"skipped_categories"`
}
