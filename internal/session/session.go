// Package session owns the in-memory snapshot of one user's data. Every
// write goes to the store first and is followed by a wholesale refetch;
// there are no optimistic merges and no retries, so the snapshot always
// reflects a state the store actually had.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// Publisher mirrors transaction writes to the export queue.
type Publisher interface {
	PublishTransactionSync(ctx context.Context, userID string, tx core.Transaction) error
}

type Session struct {
	store  store.Store
	mirror Publisher
	logger *log.Logger
	userID string

	mu           sync.RWMutex
	transactions []core.Transaction
	categories   []core.Category
	goals        []core.Goal
	profile      core.Profile
}

type Option func(*Session)

// WithMirror enables publishing of transaction writes to the sheets
// mirror queue. Mirror failures are logged and never fail the write.
func WithMirror(p Publisher) Option {
	return func(s *Session) { s.mirror = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l.WithComponent("session") }
}

func New(st store.Store, userID string, opts ...Option) *Session {
	s := &Session{
		store:  st,
		userID: userID,
		logger: log.New(log.DefaultConfig()).WithComponent("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) UserID() string { return s.userID }

// Refresh refetches the whole snapshot. A missing profile is not an
// error; the user just has not saved one yet.
func (s *Session) Refresh(ctx context.Context) error {
	txs, err := s.store.ListTransactions(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("refresh transactions: %w", err)
	}
	cats, err := s.store.ListCategories(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("refresh categories: %w", err)
	}
	goals, err := s.store.ListGoals(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("refresh goals: %w", err)
	}
	profile, err := s.store.GetProfile(ctx, s.userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("refresh profile: %w", err)
	}

	s.mu.Lock()
	s.transactions = txs
	s.categories = cats
	s.goals = goals
	s.profile = profile
	s.mu.Unlock()
	return nil
}

// EnsureDefaults seeds the default category catalogs on first run, then
// refreshes.
func (s *Session) EnsureDefaults(ctx context.Context) error {
	cats, err := s.store.ListCategories(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("check categories: %w", err)
	}
	if len(cats) == 0 {
		defaults := append(core.DefaultExpenseCategories(), core.DefaultIncomeCategories()...)
		for _, c := range defaults {
			if err := s.store.InsertCategory(ctx, s.userID, c); err != nil {
				return fmt.Errorf("seed category %s: %w", c.ID, err)
			}
		}
		s.logger.Info("Seeded default categories", "count", len(defaults))
	}
	return s.Refresh(ctx)
}

// Snapshot accessors return copies; callers can never mutate session
// state through them.

func (s *Session) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

func (s *Session) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Session) Goals() []core.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

func (s *Session) Profile() core.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// AddTransaction validates, stores and mirrors a new transaction. An
// empty ID gets a generated one.
func (s *Session) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.InsertTransaction(ctx, s.userID, tx); err != nil {
		return core.Transaction{}, err
	}
	s.publishMirror(ctx, tx)
	if err := s.Refresh(ctx); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (s *Session) UpdateTransaction(ctx context.Context, id string, patch store.TransactionPatch) error {
	if err := s.store.UpdateTransaction(ctx, s.userID, id, patch); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Session) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, s.userID, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// AddCategory stores a new category. An empty ID is derived from the
// name.
func (s *Session) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = slug(c.Name)
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.store.InsertCategory(ctx, s.userID, c); err != nil {
		return core.Category{}, err
	}
	if err := s.Refresh(ctx); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *Session) UpdateCategory(ctx context.Context, id, name, color, icon string) error {
	if strings.TrimSpace(name) == "" {
		return core.ErrEmptyName
	}
	if err := s.store.UpdateCategory(ctx, s.userID, id, name, color, icon); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// DeleteCategory removes the category; transactions referencing it are
// left orphaned on purpose.
func (s *Session) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, s.userID, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Session) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.UserID = s.userID
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := s.store.InsertGoal(ctx, s.userID, g); err != nil {
		return core.Goal{}, err
	}
	if err := s.Refresh(ctx); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (s *Session) UpdateGoal(ctx context.Context, id string, patch store.GoalPatch) error {
	if err := s.store.UpdateGoal(ctx, s.userID, id, patch); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Session) DeleteGoal(ctx context.Context, id string) error {
	if err := s.store.DeleteGoal(ctx, s.userID, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// AllocateToGoal records a transaction and moves the goal's current
// amount in the direction the transaction type implies: income adds,
// expense subtracts. The store applies the delta; no clamping happens
// anywhere.
func (s *Session) AllocateToGoal(ctx context.Context, goalID string, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.InsertTransaction(ctx, s.userID, tx); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.ReallocateGoalProgress(ctx, s.userID, goalID, tx.Type.Signed(tx.Amount)); err != nil {
		return core.Transaction{}, err
	}
	s.publishMirror(ctx, tx)
	if err := s.Refresh(ctx); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// DeleteMonth removes every transaction in the given calendar month.
func (s *Session) DeleteMonth(ctx context.Context, year, month int) error {
	from := core.NewDate(year, month, 1)
	to := core.DateOf(from.AddDate(0, 1, -1))
	if err := s.store.DeleteTransactionsInRange(ctx, s.userID, from, to); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Session) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteAllTransactions(ctx, s.userID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Session) SaveProfile(ctx context.Context, p core.Profile) error {
	p.UserID = s.userID
	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// ImportTransactions inserts parsed records in bulk, assigning ids, and
// refreshes once at the end.
func (s *Session) ImportTransactions(ctx context.Context, txs []core.Transaction) (int, error) {
	for i, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		if err := tx.Validate(); err != nil {
			return i, fmt.Errorf("transaction %d: %w", i, err)
		}
		if err := s.store.InsertTransaction(ctx, s.userID, tx); err != nil {
			return i, err
		}
		s.publishMirror(ctx, tx)
	}
	if err := s.Refresh(ctx); err != nil {
		return len(txs), err
	}
	return len(txs), nil
}

func (s *Session) publishMirror(ctx context.Context, tx core.Transaction) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.PublishTransactionSync(ctx, s.userID, tx); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish mirror message, continuing",
			"transaction_id", tx.ID,
			"error", err)
	}
}

// slug derives a category id from its display name.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	return b.String()
}
