package ledger

import (
	"encoding/json"
	"fmt"

	"tally/internal/core"
)

// wireTransaction is the stored record shape: integer id, free-form text,
// decimal amount, ISO-8601 date.
type wireTransaction struct {
	ID     int64      `json:"id"`
	Text   string     `json:"text"`
	Amount core.Money `json:"amount"`
	Date   core.Date  `json:"date"`
}

// EncodeSnapshot serializes the whole ledger as a JSON array.
func EncodeSnapshot(txs []core.Transaction) ([]byte, error) {
	records := make([]wireTransaction, len(txs))
	for i, tx := range txs {
		records[i] = wireTransaction{ID: tx.ID, Text: tx.Text, Amount: tx.Amount, Date: tx.Date}
	}
	blob, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal ledger: %w", err)
	}
	return blob, nil
}

// DecodeSnapshot parses a stored snapshot back into ledger order.
func DecodeSnapshot(blob []byte) ([]core.Transaction, error) {
	var records []wireTransaction
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("unmarshal ledger: %w", err)
	}
	txs := make([]core.Transaction, len(records))
	for i, r := range records {
		txs[i] = core.Transaction{ID: r.ID, Text: r.Text, Amount: r.Amount, Date: r.Date}
	}
	return txs, nil
}
