package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/storage"
)

// SnapshotService fetches fresh snapshots from the ledger API and falls
// back to the last snapshot persisted on disk when the API is unreachable.
type SnapshotService struct {
	client *Client
	store  *storage.Store
}

// NewSnapshotService wires a Client to a local snapshot store. The store
// may be nil, in which case no fallback or persistence happens.
func NewSnapshotService(client *Client, store *storage.Store) *SnapshotService {
	return &SnapshotService{client: client, store: store}
}

// Snapshot assembles a complete snapshot of the ledger. The four detail
// fetches run concurrently; on failure the last persisted snapshot is
// returned with FromCache set.
func (s *SnapshotService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap := &models.Snapshot{FetchedAt: time.Now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.client.Accounts(gctx)
		if err != nil {
			return fmt.Errorf("fetch accounts: %w", err)
		}
		snap.Accounts = accounts
		return nil
	})
	g.Go(func() error {
		categories, err := s.client.Categories(gctx)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		snap.Categories = categories
		return nil
	})
	g.Go(func() error {
		transactions, err := s.client.Transactions(gctx)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		snap.Transactions = transactions
		return nil
	})
	g.Go(func() error {
		scheduled, err := s.client.Scheduled(gctx)
		if err != nil {
			return fmt.Errorf("fetch scheduled transactions: %w", err)
		}
		snap.Scheduled = scheduled
		return nil
	})

	if err := g.Wait(); err != nil {
		return s.fallback(err)
	}

	if s.store != nil {
		if err := s.store.SaveSnapshot(snap); err != nil {
			log.Printf("warning: failed to persist snapshot: %v", err)
		}
	}
	return snap, nil
}

func (s *SnapshotService) fallback(fetchErr error) (*models.Snapshot, error) {
	if s.store == nil {
		return nil, fetchErr
	}
	cached, loadErr := s.store.LoadSnapshot()
	if loadErr != nil {
		if errors.Is(loadErr, storage.ErrNoSnapshot) {
			return nil, fetchErr
		}
		return nil, fmt.Errorf("%w (cached snapshot also unavailable: %v)", fetchErr, loadErr)
	}
	log.Printf("ledger API unavailable, serving snapshot from %s: %v",
		cached.FetchedAt.Format(time.RFC3339), fetchErr)
	cached.FromCache = true
	return cached, nil
}
