package services

import (
	"context"
	"log/slog"

	"tally/internal/core"
	"tally/internal/ledger"
)

// ChangePublisher notifies downstream consumers that the persisted ledger
// snapshot changed. *amqp.Client satisfies it.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, revision int64, count int) error
}

// LedgerService orchestrates ledger mutations and change events. The store
// persists first; the event is best-effort and never fails the request.
type LedgerService struct {
	store     *ledger.Store
	publisher ChangePublisher
}

func NewLedgerService(store *ledger.Store, publisher ChangePublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// Add appends a validated transaction and announces the change.
func (s *LedgerService) Add(ctx context.Context, text, amount string, date core.Date) (core.Transaction, error) {
	tx, err := s.store.Add(ctx, text, amount, date)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishChange(ctx)
	return tx, nil
}

// Remove deletes by id and announces the change. A missing id is a no-op
// and publishes nothing.
func (s *LedgerService) Remove(ctx context.Context, id int64) bool {
	removed := s.store.Remove(ctx, id)
	if removed {
		s.publishChange(ctx)
	}
	return removed
}

func (s *LedgerService) Snapshot() []core.Transaction {
	return s.store.Snapshot()
}

func (s *LedgerService) Revision() int64 {
	return s.store.Revision()
}

func (s *LedgerService) publishChange(ctx context.Context) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No change publisher configured, skipping event")
		return
	}
	if err := s.publisher.PublishLedgerChanged(ctx, s.store.Revision(), s.store.Count()); err != nil {
		// The snapshot is already persisted; the worker's periodic pass
		// covers a lost event.
		slog.ErrorContext(ctx, "Failed to publish ledger change event", "error", err)
	}
}
