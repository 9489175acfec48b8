// Package sheets defines the port for the spreadsheet mirror.
package sheets

import (
	"context"

	"fintrack/internal/core"
)

// RowAppender appends one transaction row to the mirror sheet and
// returns a reference to the written range.
type RowAppender interface {
	AppendTransaction(ctx context.Context, userID string, tx core.Transaction) (rowRef string, err error)
}
