// Package forecast serves the cash-flow projection endpoint.
package forecast

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/calendar"
	"ledgerlens/internal/services/forecast"
	"ledgerlens/internal/services/projection"
	"ledgerlens/internal/services/recurrence"
)

// SnapshotProvider supplies ledger snapshots for analysis.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

var provider SnapshotProvider

// Initialize sets up the forecast package with required dependencies
func Initialize(p SnapshotProvider) {
	provider = p
}

// RegisterRoutes registers all forecast routes
func RegisterRoutes(r chi.Router) {
	r.Get("/forecast", handleForecast)
}

func handleForecast(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid days: "+raw, http.StatusBadRequest)
			return
		}
		days = n
	}
	days = forecast.ClampHorizon(days)

	includeDetected := r.URL.Query().Get("include_detected") != "false"

	snap, err := provider.Snapshot(r.Context())
	if err != nil {
		log.Printf("Error loading snapshot: %v", err)
		http.Error(w, "Error loading data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	today := calendar.Today()
	from := today.Civil()
	to := from.AddDays(days)

	items, err := projection.ExpandScheduled(snap.Scheduled, from, to)
	if err != nil {
		log.Printf("Error expanding scheduled items: %v", err)
		http.Error(w, "Error expanding scheduled items: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if includeDetected {
		detected := recurrence.DetectPayments(snap.Transactions.ForAnalysis(), from, recurrence.Options{})
		extra, err := projection.ExpandDetected(detected.Items, from, to)
		if err != nil {
			log.Printf("Error expanding detected items: %v", err)
			http.Error(w, "Error expanding detected items: "+err.Error(), http.StatusInternalServerError)
			return
		}
		items = append(items, extra...)
	}

	report := forecast.Project(models.ForecastBalance(snap.Accounts), items, days, today)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		models.ForecastReport
		FromCache bool `json:"from_cache,omitempty"`
	}{report, snap.FromCache})
}
