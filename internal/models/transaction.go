package models

import (
	"sort"

	"ledgerlens/internal/services/calendar"
	"ledgerlens/internal/services/money"
)

// Transaction is a single ledger transaction as fetched from the remote
// ledger API. Amounts are signed minor units: outflows negative, inflows
// positive. Transactions are never mutated by the analysis code.
type Transaction struct {
	ID           string            `json:"id"`
	Date         calendar.CivilDay `json:"date"`
	Amount       int64             `json:"amount"`
	PayeeID      string            `json:"payee_id,omitempty"`
	PayeeName    string            `json:"payee_name"`
	CategoryID   string            `json:"category_id,omitempty"`
	CategoryName string            `json:"category_name,omitempty"`
	Transfer     bool              `json:"transfer"`
	Deleted      bool              `json:"deleted"`
}

// IsOutflow reports whether the transaction is money leaving the budget.
func (t *Transaction) IsOutflow() bool { return t.Amount < 0 }

// IsInflow reports whether the transaction is money entering the budget.
func (t *Transaction) IsInflow() bool { return t.Amount > 0 }

// TransactionSet wraps a slice of transactions with the filtering and
// grouping operations the analysis services are built on. Every method
// returns a new set; the receiver is never modified.
type TransactionSet struct {
	Transactions []Transaction `json:"transactions"`
}

// NewTransactionSet creates a TransactionSet from a slice.
func NewTransactionSet(transactions []Transaction) *TransactionSet {
	return &TransactionSet{Transactions: transactions}
}

// Len returns the number of transactions.
func (ts *TransactionSet) Len() int {
	return len(ts.Transactions)
}

// ForAnalysis returns only the transactions that participate in analysis:
// transfers and deleted transactions are excluded.
func (ts *TransactionSet) ForAnalysis() *TransactionSet {
	result := &TransactionSet{}
	for _, t := range ts.Transactions {
		if t.Transfer || t.Deleted {
			continue
		}
		result.Transactions = append(result.Transactions, t)
	}
	return result
}

// Outflows returns transactions with negative amounts.
func (ts *TransactionSet) Outflows() *TransactionSet {
	result := &TransactionSet{}
	for _, t := range ts.Transactions {
		if t.IsOutflow() {
			result.Transactions = append(result.Transactions, t)
		}
	}
	return result
}

// Inflows returns transactions with positive amounts.
func (ts *TransactionSet) Inflows() *TransactionSet {
	result := &TransactionSet{}
	for _, t := range ts.Transactions {
		if t.IsInflow() {
			result.Transactions = append(result.Transactions, t)
		}
	}
	return result
}

// FilterByDateRange returns transactions within [start, end] inclusive.
func (ts *TransactionSet) FilterByDateRange(start, end calendar.CivilDay) *TransactionSet {
	result := &TransactionSet{}
	for _, t := range ts.Transactions {
		if !t.Date.Before(start) && !t.Date.After(end) {
			result.Transactions = append(result.Transactions, t)
		}
	}
	return result
}

// FilterSince returns transactions on or after the given day.
func (ts *TransactionSet) FilterSince(day calendar.CivilDay) *TransactionSet {
	result := &TransactionSet{}
	for _, t := range ts.Transactions {
		if !t.Date.Before(day) {
			result.Transactions = append(result.Transactions, t)
		}
	}
	return result
}

// groupBy partitions transactions by the extracted key, date-sorted within
// each bucket. Transactions with an empty key are dropped entirely: merging
// distinct unidentified entities under one bucket would manufacture false
// recurring patterns.
func (ts *TransactionSet) groupBy(key func(*Transaction) string) map[string]*TransactionSet {
	result := make(map[string]*TransactionSet)
	for _, t := range ts.Transactions {
		k := key(&t)
		if k == "" {
			continue
		}
		if result[k] == nil {
			result[k] = &TransactionSet{}
		}
		result[k].Transactions = append(result[k].Transactions, t)
	}
	for _, set := range result {
		set.sortInPlace()
	}
	return result
}

// GroupByPayee partitions by payee id, each bucket ordered by date.
func (ts *TransactionSet) GroupByPayee() map[string]*TransactionSet {
	return ts.groupBy(func(t *Transaction) string { return t.PayeeID })
}

// GroupByCategory partitions by category id, each bucket ordered by date.
func (ts *TransactionSet) GroupByCategory() map[string]*TransactionSet {
	return ts.groupBy(func(t *Transaction) string { return t.CategoryID })
}

// SortByDate returns a copy sorted by date ascending, with ID as a
// tie-breaker so identical snapshots always produce identical output.
func (ts *TransactionSet) SortByDate() *TransactionSet {
	sorted := make([]Transaction, len(ts.Transactions))
	copy(sorted, ts.Transactions)
	result := &TransactionSet{Transactions: sorted}
	result.sortInPlace()
	return result
}

func (ts *TransactionSet) sortInPlace() {
	sort.Slice(ts.Transactions, func(i, j int) bool {
		a, b := ts.Transactions[i], ts.Transactions[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})
}

// SumAmount returns the exact sum of all amounts in minor units.
func (ts *TransactionSet) SumAmount() int64 {
	return money.Sum(ts.Amounts())
}

// Amounts returns the minor-unit amounts in set order.
func (ts *TransactionSet) Amounts() []int64 {
	amounts := make([]int64, len(ts.Transactions))
	for i, t := range ts.Transactions {
		amounts[i] = t.Amount
	}
	return amounts
}

// Dates returns the transaction dates in set order.
func (ts *TransactionSet) Dates() []calendar.CivilDay {
	dates := make([]calendar.CivilDay, len(ts.Transactions))
	for i, t := range ts.Transactions {
		dates[i] = t.Date
	}
	return dates
}

// MonthlyTotals returns month key -> exact minor-unit total.
func (ts *TransactionSet) MonthlyTotals() map[string]int64 {
	result := make(map[string]int64)
	for _, t := range ts.Transactions {
		result[t.Date.MonthKey()] += t.Amount
	}
	return result
}

// MinDate returns the earliest transaction date, or the zero day if empty.
func (ts *TransactionSet) MinDate() calendar.CivilDay {
	if len(ts.Transactions) == 0 {
		return calendar.CivilDay{}
	}
	min := ts.Transactions[0].Date
	for _, t := range ts.Transactions[1:] {
		if t.Date.Before(min) {
			min = t.Date
		}
	}
	return min
}

// MaxDate returns the latest transaction date, or the zero day if empty.
func (ts *TransactionSet) MaxDate() calendar.CivilDay {
	if len(ts.Transactions) == 0 {
		return calendar.CivilDay{}
	}
	max := ts.Transactions[0].Date
	for _, t := range ts.Transactions[1:] {
		if t.Date.After(max) {
			max = t.Date
		}
	}
	return max
}
