package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Refresh reasons carried on the wire. The worker logs them; handling
// is identical either way.
const (
	ReasonLedgerChanged = "ledger_changed"
	ReasonManualRefresh = "manual_refresh"
	ReasonScheduled     = "scheduled"
)

// RefreshMessage asks the digest worker to recompute and persist the
// analytics digest. It carries no ledger data, the worker reads the
// current snapshot itself.
type RefreshMessage struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRefreshMessage creates a refresh request with a fresh message ID
func NewRefreshMessage(reason string) *RefreshMessage {
	return &RefreshMessage{
		ID:        uuid.NewString(),
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RefreshMessageFromJSON creates a message from JSON bytes
func RefreshMessageFromJSON(data []byte) (*RefreshMessage, error) {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
