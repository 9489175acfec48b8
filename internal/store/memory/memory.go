// Package memory implements the store ports entirely in process. It
// backs tests and demo runs; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	transactions map[string][]core.Transaction
	categories   map[string][]core.Category
	goals        map[string][]core.Goal
	profiles     map[string]core.Profile
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		transactions: make(map[string][]core.Transaction),
		categories:   make(map[string][]core.Category),
		goals:        make(map[string][]core.Goal),
		profiles:     make(map[string]core.Profile),
	}
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.transactions[userID]))
	copy(out, s.transactions[userID])
	return out, nil
}

func (s *Store) InsertTransaction(_ context.Context, userID string, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[userID] = append(s.transactions[userID], tx)
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, userID, id string, patch store.TransactionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := s.transactions[userID]
	for i := range txs {
		if txs[i].ID != id {
			continue
		}
		patch.ApplyTo(&txs[i])
		return nil
	}
	return store.Remote("update transaction", fmt.Errorf("%w: transaction %s", store.ErrNotFound, id))
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := s.transactions[userID]
	for i := range txs {
		if txs[i].ID == id {
			s.transactions[userID] = append(txs[:i], txs[i+1:]...)
			return nil
		}
	}
	return store.Remote("delete transaction", fmt.Errorf("%w: transaction %s", store.ErrNotFound, id))
}

func (s *Store) DeleteTransactionsInRange(_ context.Context, userID string, from, to core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []core.Transaction
	for _, tx := range s.transactions[userID] {
		if !tx.Date.Before(from.Time) && !tx.Date.After(to.Time) {
			continue
		}
		kept = append(kept, tx)
	}
	s.transactions[userID] = kept
	return nil
}

func (s *Store) DeleteAllTransactions(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[userID] = nil
	return nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Category, len(s.categories[userID]))
	copy(out, s.categories[userID])
	return out, nil
}

func (s *Store) InsertCategory(_ context.Context, userID string, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories[userID] {
		if existing.ID == c.ID {
			return store.Remote("insert category", fmt.Errorf("category %s already exists", c.ID))
		}
	}
	s.categories[userID] = append(s.categories[userID], c)
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, userID, id string, name, color, icon string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := s.categories[userID]
	for i := range cats {
		if cats[i].ID == id {
			cats[i].Name = name
			cats[i].Color = color
			cats[i].Icon = icon
			return nil
		}
	}
	return store.Remote("update category", fmt.Errorf("%w: category %s", store.ErrNotFound, id))
}

func (s *Store) DeleteCategory(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := s.categories[userID]
	for i := range cats {
		if cats[i].ID == id {
			s.categories[userID] = append(cats[:i], cats[i+1:]...)
			return nil
		}
	}
	return store.Remote("delete category", fmt.Errorf("%w: category %s", store.ErrNotFound, id))
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Goal, len(s.goals[userID]))
	copy(out, s.goals[userID])
	return out, nil
}

func (s *Store) InsertGoal(_ context.Context, userID string, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[userID] = append(s.goals[userID], g)
	return nil
}

func (s *Store) UpdateGoal(_ context.Context, userID, id string, patch store.GoalPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := s.goals[userID]
	for i := range goals {
		if goals[i].ID != id {
			continue
		}
		patch.ApplyTo(&goals[i])
		return nil
	}
	return store.Remote("update goal", fmt.Errorf("%w: goal %s", store.ErrNotFound, id))
}

func (s *Store) DeleteGoal(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := s.goals[userID]
	for i := range goals {
		if goals[i].ID == id {
			s.goals[userID] = append(goals[:i], goals[i+1:]...)
			return nil
		}
	}
	return store.Remote("delete goal", fmt.Errorf("%w: goal %s", store.ErrNotFound, id))
}

func (s *Store) ReallocateGoalProgress(_ context.Context, userID, goalID string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := s.goals[userID]
	for i := range goals {
		if goals[i].ID == goalID {
			goals[i].CurrentAmount = goals[i].CurrentAmount.Add(amount)
			return nil
		}
	}
	return store.Remote("reallocate goal progress", fmt.Errorf("%w: goal %s", store.ErrNotFound, goalID))
}

func (s *Store) GetProfile(_ context.Context, userID string) (core.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return core.Profile{}, store.Remote("get profile", fmt.Errorf("%w: profile %s", store.ErrNotFound, userID))
	}
	return p, nil
}

func (s *Store) UpsertProfile(_ context.Context, p core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
