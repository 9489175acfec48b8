package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	sheetsmem "fintrack/internal/sheets/memory"
)

func TestHandleSyncMessage(t *testing.T) {
	appender := sheetsmem.New()
	w := NewSyncWorker(appender)

	tx := core.Transaction{
		ID:          "t1",
		Date:        core.NewDate(2024, 1, 15),
		Amount:      decimal.RequireFromString("19.99"),
		Description: "gym",
		Category:    "health",
		Type:        core.Expense,
	}

	err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage("u1", tx))
	if err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	rows := appender.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 mirrored row, got %d", len(rows))
	}
	if rows[0].UserID != "u1" || rows[0].Transaction.ID != "t1" {
		t.Errorf("mirrored row = %+v", rows[0])
	}
}

type failingAppender struct{}

func (failingAppender) AppendTransaction(context.Context, string, core.Transaction) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestHandleSyncMessage_AppendFailure(t *testing.T) {
	w := NewSyncWorker(failingAppender{})
	msg := amqp.NewTransactionSyncMessage("u1", core.Transaction{ID: "t1"})

	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Error("append failures must propagate so the delivery is requeued")
	}
}
