// Package sqlite implements the store ports on a local SQLite file, the
// single-user deployment without a hosted database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return store.Remote("ping", s.db.PingContext(ctx))
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const transactionColumns = `id, date, amount, description, category, type, is_recurring, recurrence_interval, next_due_date`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		tx                    core.Transaction
		date, amount, nextDue string
		recurring             int64
	)
	err := row.Scan(&tx.ID, &date, &amount, &tx.Description, &tx.Category, &tx.Type, &recurring, &tx.RecurrenceInterval, &nextDue)
	if err != nil {
		return core.Transaction{}, err
	}
	if tx.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	tx.IsRecurring = recurring != 0
	if nextDue != "" {
		if tx.NextDueDate, err = core.ParseDate(nextDue); err != nil {
			return core.Transaction{}, fmt.Errorf("stored next due date %q: %w", nextDue, err)
		}
	}
	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY date DESC, id`, userID)
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

func (s *Store) InsertTransaction(ctx context.Context, userID string, tx core.Transaction) error {
	nextDue := ""
	if !tx.NextDueDate.IsZero() {
		nextDue = tx.NextDueDate.String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, date, amount, description, category, type, is_recurring, recurrence_interval, next_due_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, userID, tx.Date.String(), tx.Amount.String(), tx.Description, tx.Category, tx.Type,
		boolToInt(tx.IsRecurring), string(tx.RecurrenceInterval), nextDue)
	return store.Remote("insert transaction", err)
}

func (s *Store) UpdateTransaction(ctx context.Context, userID, id string, patch store.TransactionPatch) error {
	op := "update transaction"
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Remote(op, err)
	}
	defer dbTx.Rollback()

	row := dbTx.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	current, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Remote(op, fmt.Errorf("%w: transaction %s", store.ErrNotFound, id))
	}
	if err != nil {
		return store.Remote(op, err)
	}

	patch.ApplyTo(&current)

	nextDue := ""
	if !current.NextDueDate.IsZero() {
		nextDue = current.NextDueDate.String()
	}
	_, err = dbTx.ExecContext(ctx,
		`UPDATE transactions SET date = ?, amount = ?, description = ?, category = ?, type = ?,
		 is_recurring = ?, recurrence_interval = ?, next_due_date = ? WHERE user_id = ? AND id = ?`,
		current.Date.String(), current.Amount.String(), current.Description, current.Category, current.Type,
		boolToInt(current.IsRecurring), string(current.RecurrenceInterval), nextDue, userID, id)
	if err != nil {
		return store.Remote(op, err)
	}
	return store.Remote(op, dbTx.Commit())
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return store.Remote("delete transaction", err)
	}
	return requireRowsAffected(res, "delete transaction", "transaction", id)
}

func (s *Store) DeleteTransactionsInRange(ctx context.Context, userID string, from, to core.Date) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND date >= ? AND date <= ?`,
		userID, from.String(), to.String())
	return store.Remote("delete transactions in range", err)
}

func (s *Store) DeleteAllTransactions(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID)
	return store.Remote("delete all transactions", err)
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, icon, type FROM categories WHERE user_id = ? ORDER BY type, name`, userID)
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
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, id, name, color, icon, type) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, c.ID, c.Name, c.Color, c.Icon, c.Type)
	return store.Remote("insert category", err)
}

func (s *Store) UpdateCategory(ctx context.Context, userID, id string, name, color, icon string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ?, icon = ? WHERE user_id = ? AND id = ?`,
		name, color, icon, userID, id)
	if err != nil {
		return store.Remote("update category", err)
	}
	return requireRowsAffected(res, "update category", "category", id)
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return store.Remote("delete category", err)
	}
	return requireRowsAffected(res, "delete category", "category", id)
}

const goalColumns = `id, user_id, type, target_amount, current_amount, start_date, end_date, category, title, description, created_at, updated_at`

func scanGoal(row interface{ Scan(...any) error }) (core.Goal, error) {
	var (
		g                                    core.Goal
		target, current, start, end, created string
		updated                              string
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Type, &target, &current, &start, &end, &g.Category, &g.Title, &g.Description, &created, &updated)
	if err != nil {
		return core.Goal{}, err
	}
	if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return core.Goal{}, fmt.Errorf("stored target amount %q: %w", target, err)
	}
	if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return core.Goal{}, fmt.Errorf("stored current amount %q: %w", current, err)
	}
	if g.StartDate, err = core.ParseDate(start); err != nil {
		return core.Goal{}, fmt.Errorf("stored start date %q: %w", start, err)
	}
	if g.EndDate, err = core.ParseDate(end); err != nil {
		return core.Goal{}, fmt.Errorf("stored end date %q: %w", end, err)
	}
	if g.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return core.Goal{}, fmt.Errorf("stored created_at %q: %w", created, err)
	}
	if g.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return core.Goal{}, fmt.Errorf("stored updated_at %q: %w", updated, err)
	}
	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, store.Remote("list goals", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, store.Remote("list goals", err)
		}
		goals = append(goals, g)
	}
	return goals, store.Remote("list goals", rows.Err())
}

func (s *Store) InsertGoal(ctx context.Context, userID string, g core.Goal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, type, target_amount, current_amount, start_date, end_date, category, title, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, userID, g.Type, g.TargetAmount.String(), g.CurrentAmount.String(),
		g.StartDate.String(), g.EndDate.String(), g.Category, g.Title, g.Description,
		g.CreatedAt.UTC().Format(time.RFC3339), g.UpdatedAt.UTC().Format(time.RFC3339))
	return store.Remote("insert goal", err)
}

func (s *Store) UpdateGoal(ctx context.Context, userID, id string, patch store.GoalPatch) error {
	op := "update goal"
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Remote(op, err)
	}
	defer dbTx.Rollback()

	row := dbTx.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? AND id = ?`, userID, id)
	current, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Remote(op, fmt.Errorf("%w: goal %s", store.ErrNotFound, id))
	}
	if err != nil {
		return store.Remote(op, err)
	}

	patch.ApplyTo(&current)

	_, err = dbTx.ExecContext(ctx,
		`UPDATE goals SET type = ?, target_amount = ?, current_amount = ?, start_date = ?, end_date = ?,
		 category = ?, title = ?, description = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		current.Type, current.TargetAmount.String(), current.CurrentAmount.String(),
		current.StartDate.String(), current.EndDate.String(), current.Category, current.Title,
		current.Description, time.Now().UTC().Format(time.RFC3339), userID, id)
	if err != nil {
		return store.Remote(op, err)
	}
	return store.Remote(op, dbTx.Commit())
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM goals WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return store.Remote("delete goal", err)
	}
	return requireRowsAffected(res, "delete goal", "goal", id)
}

func (s *Store) ReallocateGoalProgress(ctx context.Context, userID, goalID string, amount decimal.Decimal) error {
	op := "reallocate goal progress"
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Remote(op, err)
	}
	defer dbTx.Rollback()

	var current string
	err = dbTx.QueryRowContext(ctx,
		`SELECT current_amount FROM goals WHERE user_id = ? AND id = ?`, userID, goalID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Remote(op, fmt.Errorf("%w: goal %s", store.ErrNotFound, goalID))
	}
	if err != nil {
		return store.Remote(op, err)
	}

	cur, err := decimal.NewFromString(current)
	if err != nil {
		return store.Remote(op, fmt.Errorf("stored current amount %q: %w", current, err))
	}

	_, err = dbTx.ExecContext(ctx,
		`UPDATE goals SET current_amount = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		cur.Add(amount).String(), time.Now().UTC().Format(time.RFC3339), userID, goalID)
	if err != nil {
		return store.Remote(op, err)
	}
	return store.Remote(op, dbTx.Commit())
}

func (s *Store) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	var p core.Profile
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, full_name, theme, language FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.FullName, &p.Theme, &p.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, store.Remote("get profile", fmt.Errorf("%w: profile %s", store.ErrNotFound, userID))
	}
	if err != nil {
		return core.Profile{}, store.Remote("get profile", err)
	}
	return p, nil
}

func (s *Store) UpsertProfile(ctx context.Context, p core.Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, full_name, theme, language) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET full_name = excluded.full_name, theme = excluded.theme, language = excluded.language`,
		p.UserID, p.FullName, p.Theme, p.Language)
	return store.Remote("upsert profile", err)
}

func requireRowsAffected(res sql.Result, op, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return store.Remote(op, err)
	}
	if n == 0 {
		return store.Remote(op, fmt.Errorf("%w: %s %s", store.ErrNotFound, kind, id))
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
