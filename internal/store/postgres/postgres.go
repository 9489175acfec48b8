// Package postgres implements the store ports on a hosted PostgreSQL
// database through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return store.Remote("ping", s.pool.Ping(ctx))
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

const transactionColumns = `id, date, amount, description, category, type, is_recurring, recurrence_interval, next_due_date`

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY date DESC, id`, userID)
	if err != nil {
		return nil, store.Remote("list transactions", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, store.Remote("list transactions", err)
		}
		txs = append(txs, tx)
	}
	return txs, store.Remote("list transactions", rows.Err())
}

func scanTransaction(row pgx.Row) (core.Transaction, error) {
	var (
		tx      core.Transaction
		date    time.Time
		nextDue *time.Time
	)
	err := row.Scan(&tx.ID, &date, &tx.Amount, &tx.Description, &tx.Category, &tx.Type,
		&tx.IsRecurring, &tx.RecurrenceInterval, &nextDue)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Date = core.DateOf(date)
	if nextDue != nil {
		tx.NextDueDate = core.DateOf(*nextDue)
	}
	return tx, nil
}

func (s *Store) InsertTransaction(ctx context.Context, userID string, tx core.Transaction) error {
	var nextDue any
	if !tx.NextDueDate.IsZero() {
		nextDue = tx.NextDueDate.Time
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO transactions (id, user_id, date, amount, description, category, type, is_recurring, recurrence_interval, next_due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		tx.ID, userID, tx.Date.Time, tx.Amount, tx.Description, tx.Category, tx.Type,
		tx.IsRecurring, string(tx.RecurrenceInterval), nextDue)
	return store.Remote("insert transaction", err)
}

func (s *Store) UpdateTransaction(ctx context.Context, userID, id string, patch store.TransactionPatch) error {
	op := "update transaction"
	dbTx, err := s.pool.Begin(ctx)
	if err != nil {
		return store.Remote(op, err)
	}
	defer dbTx.Rollback(ctx)

	row := dbTx.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 AND id = $2 FOR UPDATE`, userID, id)
	current, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Remote(op, fmt.Errorf("%w: transaction %s", store.ErrNotFound, id))
	}
	if err != nil {
		return store.Remote(op, err)
	}

	patch.ApplyTo(&current)

	var nextDue any
	if !current.NextDueDate.IsZero() {
		nextDue = current.NextDueDate.Time
	}
	_, err = dbTx.Exec(ctx,
		`UPDATE transactions SET date = $1, amount = $2, description = $3, category = $4, type = $5,
		 is_recurring = $6, recurrence_interval = $7, next_due_date = $8 WHERE user_id = $9 AND id = $10`,
		current.Date.Time, current.Amount, current.Description, current.Category, current.Type,
		current.IsRecurring, string(current.RecurrenceInterval), nextDue, userID, id)
	if err != nil {
		return store.Remote(op, err)
	}
	return store.Remote(op, dbTx.Commit(ctx))
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return store.Remote("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return store.Remote("delete transaction", fmt.Errorf("%w: transaction %s", store.ErrNotFound, id))
	}
	return nil
}

func (s *Store) DeleteTransactionsInRange(ctx context.Context, userID string, from, to core.Date) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND date >= $2 AND date <= $3`,
		userID, from.Time, to.Time)
	return store.Remote("delete transactions in range", err)
}

func (s *Store) DeleteAllTransactions(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	return store.Remote("delete all transactions", err)
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, color, icon, type FROM categories WHERE user_id = $1 ORDER BY type, name`, userID)
	if err != nil {
		return nil, store.Remote("list categories", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.Type); err != nil {
			return nil, store.Remote("list categories", err)
		}
		cats = append(cats, c)
	}
	return cats, store.Remote("list categories", rows.Err())
}

func (s *Store) InsertCategory(ctx context.Context, userID string, c core.Category) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO categories (user_id, id, name, color, icon, type) VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, c.ID, c.Name, c.Color, c.Icon, c.Type)
	return store.Remote("insert category", err)
}

func (s *Store) UpdateCategory(ctx context.Context, userID, id string, name, color, icon string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE categories SET name = $1, color = $2, icon = $3 WHERE user_id = $4 AND id = $5`,
		name, color, icon, userID, id)
	if err != nil {
		return store.Remote("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return store.Remote("update category", fmt.Errorf("%w: category %s", store.ErrNotFound, id))
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM categories WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return store.Remote("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return store.Remote("delete category", fmt.Errorf("%w: category %s", store.ErrNotFound, id))
	}
	return nil
}

const goalColumns = `id, user_id, type, target_amount, current_amount, start_date, end_date, category, title, description, created_at, updated_at`

func (s *Store) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, store.Remote("list goals", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var g core.Goal
		err := rows.Scan(&g.ID, &g.UserID, &g.Type, &g.TargetAmount, &g.CurrentAmount,
			&g.StartDate.Time, &g.EndDate.Time, &g.Category, &g.Title, &g.Description,
			&g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, store.Remote("list goals", err)
		}
		goals = append(goals, g)
	}
	return goals, store.Remote("list goals", rows.Err())
}

func (s *Store) InsertGoal(ctx context.Context, userID string, g core.Goal) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO goals (id, user_id, type, target_amount, current_amount, start_date, end_date, category, title, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		g.ID, userID, g.Type, g.TargetAmount, g.CurrentAmount, g.StartDate.Time, g.EndDate.Time,
		g.Category, g.Title, g.Description, g.CreatedAt, g.UpdatedAt)
	return store.Remote("insert goal", err)
}

func (s *Store) UpdateGoal(ctx context.Context, userID, id string, patch store.GoalPatch) error {
	op := "update goal"
	tag, err := s.pool.Exec(ctx,
		`UPDATE goals SET
			type = COALESCE($1, type),
			target_amount = COALESCE($2, target_amount),
			current_amount = COALESCE($3, current_amount),
			start_date = COALESCE($4, start_date),
			end_date = COALESCE($5, end_date),
			category = COALESCE($6, category),
			title = COALESCE($7, title),
			description = COALESCE($8, description),
			updated_at = now()
		 WHERE user_id = $9 AND id = $10`,
		goalTypeArg(patch.Type), decimalArg(patch.TargetAmount), decimalArg(patch.CurrentAmount),
		dateArg(patch.StartDate), dateArg(patch.EndDate), patch.Category, patch.Title,
		patch.Description, userID, id)
	if err != nil {
		return store.Remote(op, err)
	}
	if tag.RowsAffected() == 0 {
		return store.Remote(op, fmt.Errorf("%w: goal %s", store.ErrNotFound, id))
	}
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM goals WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return store.Remote("delete goal", err)
	}
	if tag.RowsAffected() == 0 {
		return store.Remote("delete goal", fmt.Errorf("%w: goal %s", store.ErrNotFound, id))
	}
	return nil
}

func (s *Store) ReallocateGoalProgress(ctx context.Context, userID, goalID string, amount decimal.Decimal) error {
	op := "reallocate goal progress"
	tag, err := s.pool.Exec(ctx,
		`UPDATE goals SET current_amount = current_amount + $1, updated_at = now()
		 WHERE user_id = $2 AND id = $3`,
		amount, userID, goalID)
	if err != nil {
		return store.Remote(op, err)
	}
	if tag.RowsAffected() == 0 {
		return store.Remote(op, fmt.Errorf("%w: goal %s", store.ErrNotFound, goalID))
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	var p core.Profile
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, full_name, theme, language FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.FullName, &p.Theme, &p.Language)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Profile{}, store.Remote("get profile", fmt.Errorf("%w: profile %s", store.ErrNotFound, userID))
	}
	if err != nil {
		return core.Profile{}, store.Remote("get profile", err)
	}
	return p, nil
}

func (s *Store) UpsertProfile(ctx context.Context, p core.Profile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, full_name, theme, language) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET full_name = excluded.full_name, theme = excluded.theme, language = excluded.language`,
		p.UserID, p.FullName, p.Theme, p.Language)
	return store.Remote("upsert profile", err)
}

// Nullable argument helpers: pgx maps typed nil pointers to SQL NULL,
// which the COALESCE updates rely on.

func dateArg(d *core.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func decimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}

func goalTypeArg(t *core.GoalType) any {
	if t == nil {
		return nil
	}
	return string(*t)
}
