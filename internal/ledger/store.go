// Package ledger holds the ordered transaction list and its derived views.
//
// The Store is the only component that mutates the ledger; everything else
// works on snapshot copies. Every successful mutation rewrites the full
// serialized ledger to the blob store under a single key.
package ledger

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"tally/internal/blobstore"
	"tally/internal/core"
)

// SnapshotKey is the single blob store key holding the serialized ledger.
const SnapshotKey = "ledger"

// idSpace matches the original id generator's range; large enough that a
// collision within one ledger is not expected, and the store redraws on the
// off chance anyway.
const idSpace = 1_000_000_000

type Store struct {
	mu    sync.Mutex
	blobs blobstore.Store
	txs   []core.Transaction
	rev   int64

	// newID is swappable in tests
	newID func() int64
}

func NewStore(blobs blobstore.Store) *Store {
	return &Store{
		blobs: blobs,
		newID: func() int64 { return rand.Int64N(idSpace) },
	}
}

// Load reads the persisted snapshot. An absent key, a failed read, or an
// unparseable blob all yield an empty ledger; the session starts fresh and
// the first successful write replaces whatever was stored.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok, err := s.blobs.Get(ctx, SnapshotKey)
	if err != nil {
		slog.WarnContext(ctx, "Snapshot read failed, starting with empty ledger", "error", err)
		return
	}
	if !ok {
		slog.InfoContext(ctx, "No stored snapshot, starting with empty ledger")
		return
	}

	txs, err := DecodeSnapshot(blob)
	if err != nil {
		slog.WarnContext(ctx, "Snapshot unparseable, starting with empty ledger",
			"error", err, "size", len(blob))
		return
	}

	s.txs = txs
	slog.InfoContext(ctx, "Ledger loaded", "count", len(txs))
}

// Add validates the raw form input, appends a new transaction, and persists
// the full snapshot. Validation failure leaves the ledger untouched and
// returns one of the core sentinel errors.
func (s *Store) Add(ctx context.Context, text, amount string, date core.Date) (core.Transaction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return core.Transaction{}, core.ErrEmptyText
	}

	cents, err := core.ParseSignedToCents(amount)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		Text:   text,
		Amount: core.Money{Cents: cents},
		Date:   date,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.nextID()
	s.txs = append(s.txs, tx)
	s.rev++
	s.persistLocked(ctx)

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"text", tx.Text,
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date.String())
	return tx, nil
}

// Remove deletes the transaction with the given id and persists. A missing
// id is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.txs {
		if tx.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			s.rev++
			s.persistLocked(ctx)
			slog.InfoContext(ctx, "Transaction removed", "id", id)
			return true
		}
	}

	slog.InfoContext(ctx, "Remove of unknown transaction ignored", "id", id)
	return false
}

// Snapshot returns a copy of the current ledger in insertion order.
func (s *Store) Snapshot() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Revision counts successful mutations since startup. Derived-view caches
// key on it so a stale entry can never outlive a ledger change.
func (s *Store) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

// nextID draws a fresh random id, redrawing on collision with a live one.
func (s *Store) nextID() int64 {
	for {
		id := s.newID()
		if !s.containsLocked(id) {
			return id
		}
	}
}

func (s *Store) containsLocked(id int64) bool {
	for _, tx := range s.txs {
		if tx.ID == id {
			return true
		}
	}
	return false
}

// persistLocked writes the full snapshot. Writes are fire-and-forget: on
// failure the in-memory ledger stays authoritative for the session and the
// divergence is only logged.
func (s *Store) persistLocked(ctx context.Context) {
	blob, err := EncodeSnapshot(s.txs)
	if err != nil {
		slog.ErrorContext(ctx, "Snapshot encode failed", "error", err, "count", len(s.txs))
		return
	}
	if err := s.blobs.Set(ctx, SnapshotKey, blob); err != nil {
		slog.ErrorContext(ctx, "Snapshot write failed, in-memory state will not survive restart",
			"error", err, "count", len(s.txs))
	}
}
