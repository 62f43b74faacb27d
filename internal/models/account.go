package models

import (
	"ledgerlens/internal/services/calendar"
)

// Account is a ledger account with its current balance in minor units.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Balance  int64  `json:"balance"`
	OnBudget bool   `json:"on_budget"`
	Closed   bool   `json:"closed"`
	Deleted  bool   `json:"deleted"`
}

// Category is a spending category defined in the ledger.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hidden  bool   `json:"hidden"`
	Deleted bool   `json:"deleted"`
}

// ScheduledTransaction is a user-declared recurring transaction as the
// ledger reports it: the next occurrence date plus a frequency code.
type ScheduledTransaction struct {
	ID           string             `json:"id"`
	AccountID    string             `json:"account_id"`
	NextDate     calendar.CivilDay  `json:"next_date"`
	Amount       int64              `json:"amount"`
	Frequency    calendar.Frequency `json:"frequency"`
	PayeeName    string             `json:"payee_name"`
	CategoryName string             `json:"category_name,omitempty"`
	Deleted      bool               `json:"deleted"`
}

// ForecastBalance sums the balances of the accounts a forecast starts from:
// on-budget, not closed, not deleted.
func ForecastBalance(accounts []Account) int64 {
	var total int64
	for _, a := range accounts {
		if a.OnBudget && !a.Closed && !a.Deleted {
			total += a.Balance
		}
	}
	return total
}
