// Package store defines the ports to the remote record store and the
// error contract shared by every backend. Concrete implementations live
// in the postgres, sqlite and memory subpackages.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// ErrNotFound is returned when an id does not exist in the store.
var ErrNotFound = errors.New("record not found")

// RemoteError wraps any store failure with the operation that produced
// it. Backends never swallow errors; callers inspect the cause with
// errors.Is / errors.As through Unwrap.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Remote wraps err in a *RemoteError unless it is nil or already one.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteError{Op: op, Err: err}
}

// TransactionPatch carries a partial transaction update. Nil fields are
// left unchanged.
type TransactionPatch struct {
	Date               *core.Date
	Amount             *decimal.Decimal
	Description        *string
	Category           *string
	Type               *core.TransactionType
	IsRecurring        *bool
	RecurrenceInterval *core.RecurrenceInterval
	NextDueDate        *core.Date
}

// ApplyTo overwrites the transaction's fields set in the patch.
func (p TransactionPatch) ApplyTo(tx *core.Transaction) {
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.IsRecurring != nil {
		tx.IsRecurring = *p.IsRecurring
	}
	if p.RecurrenceInterval != nil {
		tx.RecurrenceInterval = *p.RecurrenceInterval
	}
	if p.NextDueDate != nil {
		tx.NextDueDate = *p.NextDueDate
	}
}

// GoalPatch carries a partial goal update. Nil fields are left
// unchanged.
type GoalPatch struct {
	Type          *core.GoalType
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	StartDate     *core.Date
	EndDate       *core.Date
	Category      *string
	Title         *string
	Description   *string
}

// ApplyTo overwrites the goal's fields set in the patch.
func (p GoalPatch) ApplyTo(g *core.Goal) {
	if p.Type != nil {
		g.Type = *p.Type
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.StartDate != nil {
		g.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		g.EndDate = *p.EndDate
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
}

type TransactionStore interface {
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	InsertTransaction(ctx context.Context, userID string, tx core.Transaction) error
	UpdateTransaction(ctx context.Context, userID, id string, patch TransactionPatch) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	// DeleteTransactionsInRange removes every transaction dated within
	// [from, to], inclusive on both ends.
	DeleteTransactionsInRange(ctx context.Context, userID string, from, to core.Date) error
	DeleteAllTransactions(ctx context.Context, userID string) error
}

type CategoryStore interface {
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
	InsertCategory(ctx context.Context, userID string, c core.Category) error
	UpdateCategory(ctx context.Context, userID, id string, name, color, icon string) error
	// DeleteCategory removes the category only. Transactions referencing
	// it keep their category id and become orphaned.
	DeleteCategory(ctx context.Context, userID, id string) error
}

type GoalStore interface {
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	InsertGoal(ctx context.Context, userID string, g core.Goal) error
	UpdateGoal(ctx context.Context, userID, id string, patch GoalPatch) error
	DeleteGoal(ctx context.Context, userID, id string) error
	// ReallocateGoalProgress adds the signed amount to the goal's current
	// amount atomically on the store side. The result is not clamped.
	ReallocateGoalProgress(ctx context.Context, userID, goalID string, amount decimal.Decimal) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (core.Profile, error)
	UpsertProfile(ctx context.Context, p core.Profile) error
}

// Store is the full remote record store a backend must provide.
type Store interface {
	TransactionStore
	CategoryStore
	GoalStore
	ProfileStore
	// Ping verifies connectivity. Backends without a remote peer return
	// nil.
	Ping(ctx context.Context) error
	Close() error
}
