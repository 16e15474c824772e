// Package export mirrors ledger snapshots to secondary destinations.
//
// Exports are derived entirely from the persisted snapshot, so re-running
// an export after a missed event converges to the same result.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
)

// Exporter writes one ledger snapshot to a destination.
type Exporter interface {
	Export(ctx context.Context, txs []core.Transaction) error
}

// report is the file export shape: balance figures plus the month-grouped
// history, mirroring what the UI shows.
type report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Count       int           `json:"count"`
	Total       core.Money    `json:"total"`
	Income      core.Money    `json:"income"`
	Expense     core.Money    `json:"expense"`
	Months      []reportMonth `json:"months"`
}

type reportMonth struct {
	Label string              `json:"label"`
	Items []reportTransaction `json:"items"`
}

type reportTransaction struct {
	ID     int64      `json:"id"`
	Text   string     `json:"text"`
	Amount core.Money `json:"amount"`
	Date   core.Date  `json:"date"`
}

// FileExporter writes a JSON report into a directory, replacing the
// previous report atomically.
type FileExporter struct {
	dir string
}

func NewFileExporter(dir string) (*FileExporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &FileExporter{dir: dir}, nil
}

func (e *FileExporter) Export(ctx context.Context, txs []core.Transaction) error {
	sum := ledger.Totals(txs)
	r := report{
		GeneratedAt: time.Now().UTC(),
		Count:       len(txs),
		Total:       sum.Total,
		Income:      sum.Income,
		Expense:     sum.Expense,
		Months:      make([]reportMonth, 0),
	}
	for _, bucket := range ledger.GroupByMonth(txs) {
		month := reportMonth{Label: bucket.Label, Items: make([]reportTransaction, 0, len(bucket.Items))}
		for _, tx := range bucket.Items {
			month.Items = append(month.Items, reportTransaction{
				ID: tx.ID, Text: tx.Text, Amount: tx.Amount, Date: tx.Date,
			})
		}
		r.Months = append(r.Months, month)
	}

	blob, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	// Write-then-rename so readers never see a partial report
	target := filepath.Join(e.dir, "ledger_report.json")
	tmp, err := os.CreateTemp(e.dir, "ledger_report-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

// Path returns the report file location.
func (e *FileExporter) Path() string {
	return filepath.Join(e.dir, "ledger_report.json")
}
