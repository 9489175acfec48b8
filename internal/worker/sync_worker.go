// Package worker mirrors transaction writes from the AMQP queue to the
// spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/sheets"
)

// SyncWorker appends each queued transaction to the mirror sheet. The
// message carries the full record, so no store access is needed.
type SyncWorker struct {
	appender sheets.RowAppender
}

func NewSyncWorker(appender sheets.RowAppender) *SyncWorker {
	return &SyncWorker{appender: appender}
}

// HandleSyncMessage processes a single mirror message. Errors bubble up
// to the consumer, which requeues the delivery.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	rowRef, err := w.appender.AppendTransaction(ctx, msg.UserID, msg.Transaction)
	if err != nil {
		return fmt.Errorf("append transaction to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction to sheet",
		"transaction_id", msg.Transaction.ID,
		"row_ref", rowRef)

	return nil
}
