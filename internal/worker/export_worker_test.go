package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"tally/internal/amqp"
	"tally/internal/blobstore"
	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/ledger"
)

type failingExporter struct {
	calls int
}

func (e *failingExporter) Export(ctx context.Context, txs []core.Transaction) error {
	e.calls++
	return errors.New("destination unavailable")
}

func seedSnapshot(t *testing.T, blobs blobstore.Store, txs []core.Transaction) {
	t.Helper()
	blob, err := ledger.EncodeSnapshot(txs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := blobs.Set(context.Background(), ledger.SnapshotKey, blob); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestExportOnceWritesReport(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	seedSnapshot(t, blobs, []core.Transaction{
		{ID: 1, Text: "Salary", Amount: core.Money{Cents: 250000}, Date: core.NewDate(2024, 3, 1)},
		{ID: 2, Text: "Rent", Amount: core.Money{Cents: -90000}, Date: core.NewDate(2024, 3, 2)},
	})

	fe, err := export.NewFileExporter(t.TempDir())
	if err != nil {
		t.Fatalf("file exporter: %v", err)
	}
	w := NewExportWorker(blobs, fe)

	if err := w.ExportOnce(ctx); err != nil {
		t.Fatalf("export: %v", err)
	}

	blob, err := os.ReadFile(fe.Path())
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report struct {
		Count  int     `json:"count"`
		Total  float64 `json:"total"`
		Months []struct {
			Label string `json:"label"`
		} `json:"months"`
	}
	if err := json.Unmarshal(blob, &report); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if report.Count != 2 {
		t.Fatalf("expected 2 transactions, got %d", report.Count)
	}
	if report.Total != 1600.00 {
		t.Fatalf("expected total 1600.00, got %v", report.Total)
	}
	if len(report.Months) != 1 || report.Months[0].Label != "March 2024" {
		t.Fatalf("unexpected months: %+v", report.Months)
	}
}

func TestExportOnceAbsentSnapshot(t *testing.T) {
	ctx := context.Background()
	fe, err := export.NewFileExporter(t.TempDir())
	if err != nil {
		t.Fatalf("file exporter: %v", err)
	}
	w := NewExportWorker(blobstore.NewMemoryStore(), fe)

	if err := w.ExportOnce(ctx); err != nil {
		t.Fatalf("export of empty ledger: %v", err)
	}

	blob, err := os.ReadFile(fe.Path())
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(blob, &report); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if report.Count != 0 {
		t.Fatalf("expected empty report, got count=%d", report.Count)
	}
}

func TestExportOnceRunsAllExportersDespiteFailure(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	seedSnapshot(t, blobs, []core.Transaction{
		{ID: 1, Text: "Coffee", Amount: core.Money{Cents: -450}, Date: core.NewDate(2024, 3, 1)},
	})

	first := &failingExporter{}
	second := &failingExporter{}
	w := NewExportWorker(blobs, first, second)

	if err := w.ExportOnce(ctx); err == nil {
		t.Fatal("expected joined exporter error")
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("both exporters must run, got %d and %d", first.calls, second.calls)
	}
}

func TestExportOnceCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	if err := blobs.Set(ctx, ledger.SnapshotKey, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := NewExportWorker(blobs, &failingExporter{})
	if err := w.ExportOnce(ctx); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestHandleChangeExports(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	seedSnapshot(t, blobs, nil)

	fe, err := export.NewFileExporter(t.TempDir())
	if err != nil {
		t.Fatalf("file exporter: %v", err)
	}
	w := NewExportWorker(blobs, fe)

	msg := &amqp.LedgerChangedMessage{Revision: 3, Count: 0}
	if err := w.HandleChange(ctx, msg); err != nil {
		t.Fatalf("handle change: %v", err)
	}
	if _, err := os.Stat(fe.Path()); err != nil {
		t.Fatalf("report not written: %v", err)
	}
}
