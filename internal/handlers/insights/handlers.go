// Package insights serves the recurring-payment and spending-trend reports.
package insights

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/calendar"
	"ledgerlens/internal/services/recurrence"
	"ledgerlens/internal/services/trends"
)

// SnapshotProvider supplies ledger snapshots for analysis.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

var provider SnapshotProvider

// Initialize sets up the insights package with required dependencies
func Initialize(p SnapshotProvider) {
	provider = p
}

// RegisterRoutes registers all insights routes
func RegisterRoutes(r chi.Router) {
	r.Get("/insights/recurring", handleRecurring)
	r.Get("/insights/income", handleIncome)
	r.Get("/insights/trends", handleTrends)
}

func handleRecurring(w http.ResponseWriter, r *http.Request) {
	handleRecurrence(w, r, recurrence.DetectPayments)
}

func handleIncome(w http.ResponseWriter, r *http.Request) {
	handleRecurrence(w, r, recurrence.DetectIncome)
}

func handleRecurrence(w http.ResponseWriter, r *http.Request,
	detect func(*models.TransactionSet, calendar.CivilDay, recurrence.Options) models.RecurrenceReport) {

	opts := recurrence.Options{}
	if raw := r.URL.Query().Get("min_occurrences"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid min_occurrences: "+raw, http.StatusBadRequest)
			return
		}
		opts.MinOccurrences = n
	}

	today := calendar.Today()
	transactions, fromCache, ok := loadTransactions(w, r)
	if !ok {
		return
	}

	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := parseSince(raw, today)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		transactions = transactions.FilterSince(since)
	}

	report := detect(transactions, today.Civil(), opts)
	writeJSON(w, struct {
		models.RecurrenceReport
		FromCache bool `json:"from_cache,omitempty"`
	}{report, fromCache})
}

func handleTrends(w http.ResponseWriter, r *http.Request) {
	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid months: "+raw, http.StatusBadRequest)
			return
		}
		months = n
	}

	transactions, fromCache, ok := loadTransactions(w, r)
	if !ok {
		return
	}

	report := trends.Analyze(transactions, trends.ClampWindow(months), calendar.Today())
	writeJSON(w, struct {
		models.TrendReport
		FromCache bool `json:"from_cache,omitempty"`
	}{report, fromCache})
}

// parseSince accepts an absolute date or a relative expression like
// "past 3 months".
func parseSince(raw string, today calendar.LocalDay) (calendar.CivilDay, error) {
	if day, err := calendar.ParseCivilDay(raw); err == nil {
		return day, nil
	}
	local, err := calendar.ParseRelativeExpression(raw, today)
	if err != nil {
		return calendar.CivilDay{}, err
	}
	return local.Civil(), nil
}

func loadTransactions(w http.ResponseWriter, r *http.Request) (*models.TransactionSet, bool, bool) {
	snap, err := provider.Snapshot(r.Context())
	if err != nil {
		log.Printf("Error loading snapshot: %v", err)
		http.Error(w, "Error loading data: "+err.Error(), http.StatusInternalServerError)
		return nil, false, false
	}
	return snap.Transactions.ForAnalysis(), snap.FromCache, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
