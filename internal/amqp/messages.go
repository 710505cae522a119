package amqp

import (
	"encoding/json"
	"time"

	"rocel/internal/core"
)

// Operation names carried on transaction events.
const (
	OpCreated  = "created"
	OpUpdated  = "updated"
	OpDeleted  = "deleted"
	OpReplaced = "replaced"
)

// TransactionEvent tells the worker that the transaction set changed.
// It carries the full record so the worker never has to read the
// server's storage.
type TransactionEvent struct {
	Op          string           `json:"op"`
	Transaction core.Transaction `json:"transaction"`
	Timestamp   time.Time        `json:"timestamp"`
}

// NewTransactionEvent creates an event for one change.
func NewTransactionEvent(op string, tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Op:          op,
		Transaction: tx,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
