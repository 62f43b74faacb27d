package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/audit"
	"ledgerlens/internal/services/calendar"
)

// NewTransaction is the payload for creating a transaction on the remote
// ledger. Amount is in minor units, negative for outflows.
type NewTransaction struct {
	AccountID  string            `json:"account_id"`
	Date       calendar.CivilDay `json:"date"`
	Amount     int64             `json:"amount"`
	PayeeName  string            `json:"payee_name,omitempty"`
	CategoryID string            `json:"category_id,omitempty"`
	Memo       string            `json:"memo,omitempty"`
}

// Validate reports the first problem with the payload, if any.
func (n NewTransaction) Validate() error {
	if n.AccountID == "" {
		return fmt.Errorf("account_id is required")
	}
	if n.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if n.Amount == 0 {
		return fmt.Errorf("amount must be non-zero")
	}
	return nil
}

// Writer performs write operations against the ledger API, recording every
// call in the audit log and invalidating cached reads afterwards.
type Writer struct {
	client *Client
	audit  *audit.Store
}

// NewWriter wires a Client to an audit store. The audit store may be nil;
// writes then proceed unlogged.
func NewWriter(client *Client, auditStore *audit.Store) *Writer {
	return &Writer{client: client, audit: auditStore}
}

// CreateTransaction posts a new transaction to the ledger.
func (w *Writer) CreateTransaction(ctx context.Context, tx NewTransaction) (*models.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	raw, err := w.client.do(ctx, http.MethodPost, "/transactions", map[string]any{
		"transaction": tx,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Transaction models.Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode created transaction: %w", err)
	}

	w.record(ctx, "transaction.create", out.Transaction.ID, tx)
	w.client.InvalidateCache()
	return &out.Transaction, nil
}

func (w *Writer) record(ctx context.Context, operation, entityID string, payload any) {
	if w.audit == nil {
		return
	}
	if err := w.audit.Record(ctx, operation, entityID, payload); err != nil {
		log.Printf("warning: failed to record audit event %s: %v", operation, err)
	}
}
