package models

import "time"

// Snapshot is one complete, consistent pull of ledger state. The analysis
// services only ever see a whole snapshot; the fetch layer joins its
// concurrent requests before handing one over, so a snapshot is never
// partially populated.
type Snapshot struct {
	Accounts     []Account              `json:"accounts"`
	Categories   []Category             `json:"categories"`
	Transactions *TransactionSet        `json:"transactions"`
	Scheduled    []ScheduledTransaction `json:"scheduled"`
	FetchedAt    time.Time              `json:"fetched_at"`

	// FromCache is set when the snapshot was served from the on-disk
	// fallback because the remote ledger was unreachable.
	FromCache bool `json:"from_cache,omitempty"`
}
