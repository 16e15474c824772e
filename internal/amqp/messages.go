package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage signals that the persisted ledger snapshot changed.
// It carries no transaction data; consumers re-read the snapshot from the
// blob store, so a stale or duplicated event is harmless.
type LedgerChangedMessage struct {
	Revision  int64     `json:"revision"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(revision int64, count int) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Revision:  revision,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
