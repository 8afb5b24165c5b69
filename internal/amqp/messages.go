package amqp

import (
	"encoding/json"
	"time"
)

// LedgerSyncMessage tells the worker that the stored snapshot changed.
// It carries only the revision; the worker reads the full snapshot from
// storage, so a lost message is recovered by the next one.
type LedgerSyncMessage struct {
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerSyncMessage creates a sync message for a snapshot revision.
func NewLedgerSyncMessage(revision int64) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerSyncMessageFromJSON creates a message from JSON bytes
func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
