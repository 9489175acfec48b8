package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

// TransactionSyncMessage carries a full transaction to the sheets
// mirror. The payload is self-contained so the worker never has to read
// the store back.
type TransactionSyncMessage struct {
	UserID      string           `json:"user_id"`
	Transaction core.Transaction `json:"transaction"`
	PublishedAt time.Time        `json:"published_at"`
}

func NewTransactionSyncMessage(userID string, tx core.Transaction) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		UserID:      userID,
		Transaction: tx,
		PublishedAt: time.Now().UTC(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(b []byte) (*TransactionSyncMessage, error) {
	var m TransactionSyncMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
