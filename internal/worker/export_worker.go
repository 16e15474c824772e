// Package worker keeps export destinations in step with the persisted
// ledger snapshot.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tally/internal/amqp"
	"tally/internal/blobstore"
	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/ledger"
)

// ExportWorker re-exports the snapshot on every change event, with a
// periodic pass as a backstop for lost events.
type ExportWorker struct {
	blobs     blobstore.Store
	exporters []export.Exporter
}

func NewExportWorker(blobs blobstore.Store, exporters ...export.Exporter) *ExportWorker {
	return &ExportWorker{
		blobs:     blobs,
		exporters: exporters,
	}
}

// HandleChange processes a single ledger change event.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change event",
		"revision", msg.Revision,
		"count", msg.Count)
	return w.ExportOnce(ctx)
}

// ExportOnce loads the current snapshot and runs every exporter. An absent
// snapshot exports as an empty ledger.
func (w *ExportWorker) ExportOnce(ctx context.Context) error {
	blob, ok, err := w.blobs.Get(ctx, ledger.SnapshotKey)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	entries := []core.Transaction{}
	if ok {
		entries, err = ledger.DecodeSnapshot(blob)
		if err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
	}

	var errs []error
	for _, e := range w.exporters {
		if err := e.Export(ctx, entries); err != nil {
			slog.ErrorContext(ctx, "Exporter failed", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run consumes change events and keeps the periodic fallback ticking until
// ctx is cancelled. client may be nil, leaving only the periodic pass.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	if client != nil {
		g.Go(func() error {
			err := client.ConsumeLedgerChanges(ctx, func(msg *amqp.LedgerChangedMessage) error {
				return w.HandleChange(ctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		slog.InfoContext(ctx, "No AMQP client, relying on periodic export only")
	}

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := w.ExportOnce(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic export failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}
