package amqp

import (
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestTransactionSyncMessageJSON(t *testing.T) {
	tx := core.Transaction{
		ID:          "t1",
		Date:        core.NewDate(2024, 1, 15),
		Amount:      decimal.RequireFromString("19.99"),
		Description: "gym",
		Category:    "health",
		Type:        core.Expense,
	}

	msg := NewTransactionSyncMessage("u1", tx)
	if msg.PublishedAt.IsZero() {
		t.Error("published timestamp must be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	back, err := TransactionSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if back.UserID != "u1" || back.Transaction.ID != "t1" {
		t.Errorf("round trip lost fields: %+v", back)
	}
	if !back.Transaction.Amount.Equal(tx.Amount) {
		t.Errorf("amount = %s, want %s", back.Transaction.Amount, tx.Amount)
	}
	if back.Transaction.Date.String() != "2024-01-15" {
		t.Errorf("date = %s", back.Transaction.Date)
	}
}

func TestTransactionSyncMessageFromJSON_Invalid(t *testing.T) {
	if _, err := TransactionSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected an error for malformed payload")
	}
}
