// Package services holds background business logic that runs outside a
// request: materializing recurring transactions on their due dates.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// NextDue advances a due date by one recurrence interval. Monthly and
// yearly steps follow time.AddDate normalization, so Jan 31 + 1 month
// lands on Mar 2/3 rather than failing.
func NextDue(d core.Date, interval core.RecurrenceInterval) (core.Date, error) {
	switch interval {
	case core.Weekly:
		return core.DateOf(d.AddDate(0, 0, 7)), nil
	case core.Monthly:
		return core.DateOf(d.AddDate(0, 1, 0)), nil
	case core.Yearly:
		return core.DateOf(d.AddDate(1, 0, 0)), nil
	default:
		return core.Date{}, fmt.Errorf("%w: %q", core.ErrInvalidRecurrence, interval)
	}
}

// RecurringProcessor turns due recurring templates into concrete
// transactions.
type RecurringProcessor struct {
	store  store.Store
	logger *log.Logger
}

func NewRecurringProcessor(st store.Store, logger *log.Logger) *RecurringProcessor {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &RecurringProcessor{
		store:  st,
		logger: logger.WithComponent("recurring"),
	}
}

// ProcessDue materializes one transaction per elapsed due date for
// every recurring template of the user, then advances the template's
// next due date past now. Returns how many transactions were created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, userID string, now time.Time) (int, error) {
	txs, err := p.store.ListTransactions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	today := core.DateOf(now)
	created := 0
	for _, template := range txs {
		if !template.IsRecurring || template.NextDueDate.IsZero() {
			continue
		}

		due := template.NextDueDate
		for !due.After(today.Time) {
			instance := core.Transaction{
				ID:          uuid.NewString(),
				Date:        due,
				Amount:      template.Amount,
				Description: template.Description,
				Category:    template.Category,
				Type:        template.Type,
			}
			if err := p.store.InsertTransaction(ctx, userID, instance); err != nil {
				return created, fmt.Errorf("materialize transaction for %s: %w", template.ID, err)
			}
			created++

			due, err = NextDue(due, template.RecurrenceInterval)
			if err != nil {
				return created, fmt.Errorf("template %s: %w", template.ID, err)
			}
		}

		if !due.Equal(template.NextDueDate.Time) {
			patch := store.TransactionPatch{NextDueDate: &due}
			if err := p.store.UpdateTransaction(ctx, userID, template.ID, patch); err != nil {
				return created, fmt.Errorf("advance due date for %s: %w", template.ID, err)
			}
			p.logger.InfoContext(ctx, "Advanced recurring template",
				"template_id", template.ID,
				"next_due", due.String())
		}
	}

	if created > 0 {
		p.logger.InfoContext(ctx, "Materialized recurring transactions", "count", created)
	}
	return created, nil
}

// Run processes immediately and then on every tick until the context is
// cancelled.
func (p *RecurringProcessor) Run(ctx context.Context, userID string, interval time.Duration) error {
	if _, err := p.ProcessDue(ctx, userID, time.Now()); err != nil {
		p.logger.ErrorContext(ctx, "Recurring processing failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.ProcessDue(ctx, userID, time.Now()); err != nil {
				p.logger.ErrorContext(ctx, "Recurring processing failed", "error", err)
			}
		}
	}
}
