// Package ledgerapi exposes raw ledger entities over JSON, proxying the
// remote ledger through the cached client.
package ledgerapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ledgerlens/internal/ledger"
	"ledgerlens/internal/models"
	"ledgerlens/internal/services/calendar"
)

// Reader covers the ledger read operations this package serves.
type Reader interface {
	Accounts(ctx context.Context) ([]models.Account, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Transactions(ctx context.Context) (*models.TransactionSet, error)
}

// TransactionWriter creates transactions on the remote ledger.
type TransactionWriter interface {
	CreateTransaction(ctx context.Context, tx ledger.NewTransaction) (*models.Transaction, error)
}

var (
	reader Reader
	writer TransactionWriter
)

// Initialize sets up the ledgerapi package with required dependencies
func Initialize(r Reader, w TransactionWriter) {
	reader = r
	writer = w
}

// RegisterRoutes registers all ledger proxy routes
func RegisterRoutes(r chi.Router) {
	r.Get("/ledger/accounts", handleAccounts)
	r.Get("/ledger/categories", handleCategories)
	r.Get("/ledger/transactions", handleTransactions)
	r.Post("/ledger/transactions", handleCreateTransaction)
}

func handleAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := reader.Accounts(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := reader.Categories(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func handleTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := reader.Transactions(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := parseSince(raw, calendar.Today())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		transactions = transactions.FilterSince(since)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": transactions.SortByDate().Transactions,
	})
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

func handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload ledger.NewTransaction
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := payload.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := writer.CreateTransaction(r.Context(), payload)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"transaction": created})
}

// writeUpstreamError maps ledger API failures onto our own status codes:
// upstream 4xx pass through, everything else becomes a 502.
func writeUpstreamError(w http.ResponseWriter, err error) {
	log.Printf("Ledger API error: %v", err)
	var apiErr *ledger.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		http.Error(w, apiErr.Error(), apiErr.StatusCode)
		return
	}
	http.Error(w, "ledger API unavailable: "+err.Error(), http.StatusBadGateway)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
