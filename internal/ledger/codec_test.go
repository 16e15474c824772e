package ledger

import (
	"strings"
	"testing"

	"tally/internal/core"
)

func TestSnapshotFormat(t *testing.T) {
	txs := []core.Transaction{
		tx(7, "Coffee", -450, core.NewDate(2024, 3, 1)),
	}
	blob, err := EncodeSnapshot(txs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := string(blob)
	for _, want := range []string{`"id":7`, `"text":"Coffee"`, `"amount":-4.50`, `"date":"2024-03-01"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("snapshot %s missing %s", got, want)
		}
	}

	back, err := DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(back) != 1 || back[0] != txs[0] {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestDecodeAcceptsTimestampDates(t *testing.T) {
	// Snapshots written by older clients carry full timestamps
	blob := []byte(`[{"id":1,"text":"Rent","amount":-800,"date":"2024-03-01T10:30:00Z"}]`)
	txs, err := DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if txs[0].Date.String() != "2024-03-01" {
		t.Fatalf("date = %s", txs[0].Date)
	}
	if txs[0].Amount.Cents != -80000 {
		t.Fatalf("amount = %d", txs[0].Amount.Cents)
	}
}
