// Package memory records mirrored rows in process, standing in for the
// Google Sheets client in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

type Row struct {
	UserID      string
	Transaction core.Transaction
}

type Appender struct {
	mu   sync.Mutex
	rows []Row
}

var _ sheets.RowAppender = (*Appender)(nil)

func New() *Appender {
	return &Appender{}
}

func (a *Appender) AppendTransaction(_ context.Context, userID string, tx core.Transaction) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = append(a.rows, Row{UserID: userID, Transaction: tx})
	return fmt.Sprintf("row-%d", len(a.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (a *Appender) Rows() []Row {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Row, len(a.rows))
	copy(out, a.rows)
	return out
}
