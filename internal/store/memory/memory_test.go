package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const user = "u1"

func seedTx(t *testing.T, s *Store, id, date, amount string, typ core.TransactionType, category string) {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatal(err)
	}
	tx := core.Transaction{
		ID:          id,
		Date:        d,
		Amount:      decimal.RequireFromString(amount),
		Description: "seed",
		Category:    category,
		Type:        typ,
	}
	if err := s.InsertTransaction(context.Background(), user, tx); err != nil {
		t.Fatal(err)
	}
}

func TestTransactionCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	seedTx(t, s, "t1", "2024-01-15", "1000", core.Income, "salary")
	seedTx(t, s, "t2", "2024-01-20", "200", core.Expense, "groceries")

	txs, err := s.ListTransactions(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}

	desc := "updated"
	amount := decimal.RequireFromString("250")
	if err := s.UpdateTransaction(ctx, user, "t2", store.TransactionPatch{Description: &desc, Amount: &amount}); err != nil {
		t.Fatal(err)
	}
	txs, _ = s.ListTransactions(ctx, user)
	for _, tx := range txs {
		if tx.ID == "t2" {
			if tx.Description != "updated" || !tx.Amount.Equal(amount) {
				t.Errorf("patch not applied: %+v", tx)
			}
			if tx.Category != "groceries" {
				t.Errorf("unpatched field changed: %q", tx.Category)
			}
		}
	}

	if err := s.DeleteTransaction(ctx, user, "t1"); err != nil {
		t.Fatal(err)
	}
	txs, _ = s.ListTransactions(ctx, user)
	if len(txs) != 1 || txs[0].ID != "t2" {
		t.Errorf("delete left %+v", txs)
	}
}

func TestTransactionNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.DeleteTransaction(ctx, user, "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	var re *store.RemoteError
	if !errors.As(err, &re) {
		t.Errorf("store failures must be RemoteErrors, got %T", err)
	}
}

func TestDeleteTransactionsInRange(t *testing.T) {
	ctx := context.Background()
	s := New()

	seedTx(t, s, "jan1", "2024-01-01", "10", core.Expense, "daily")
	seedTx(t, s, "jan31", "2024-01-31", "10", core.Expense, "daily")
	seedTx(t, s, "feb1", "2024-02-01", "10", core.Expense, "daily")

	from := core.NewDate(2024, 1, 1)
	to := core.NewDate(2024, 1, 31)
	if err := s.DeleteTransactionsInRange(ctx, user, from, to); err != nil {
		t.Fatal(err)
	}

	txs, _ := s.ListTransactions(ctx, user)
	if len(txs) != 1 || txs[0].ID != "feb1" {
		t.Errorf("range delete must be inclusive on both ends, left %+v", txs)
	}
}

func TestListCopiesState(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedTx(t, s, "t1", "2024-01-15", "10", core.Expense, "daily")

	txs, _ := s.ListTransactions(ctx, user)
	txs[0].Description = "mutated by caller"

	again, _ := s.ListTransactions(ctx, user)
	if again[0].Description != "seed" {
		t.Error("List must return a copy, not internal state")
	}
}

func TestGoalReallocation(t *testing.T) {
	ctx := context.Background()
	s := New()

	g := core.Goal{
		ID:            "g1",
		UserID:        user,
		Type:          core.Savings,
		TargetAmount:  decimal.NewFromInt(100),
		CurrentAmount: decimal.NewFromInt(40),
		StartDate:     core.NewDate(2024, 1, 1),
		EndDate:       core.NewDate(2024, 12, 31),
		Title:         "vacation",
	}
	if err := s.InsertGoal(ctx, user, g); err != nil {
		t.Fatal(err)
	}

	if err := s.ReallocateGoalProgress(ctx, user, "g1", decimal.NewFromInt(25)); err != nil {
		t.Fatal(err)
	}
	if err := s.ReallocateGoalProgress(ctx, user, "g1", decimal.NewFromInt(-10)); err != nil {
		t.Fatal(err)
	}

	goals, _ := s.ListGoals(ctx, user)
	if !goals[0].CurrentAmount.Equal(decimal.NewFromInt(55)) {
		t.Errorf("current amount = %s, want 55", goals[0].CurrentAmount)
	}

	err := s.ReallocateGoalProgress(ctx, user, "missing", decimal.NewFromInt(1))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	c := core.Category{ID: "daily", Name: "Daily Expenses", Color: "#F87171", Icon: "coffee", Type: core.Expense}
	if err := s.InsertCategory(ctx, user, c); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertCategory(ctx, user, c); err == nil {
		t.Error("duplicate category id must be rejected")
	}

	if err := s.UpdateCategory(ctx, user, "daily", "Everyday", "#000000", "cup"); err != nil {
		t.Fatal(err)
	}
	cats, _ := s.ListCategories(ctx, user)
	if cats[0].Name != "Everyday" || cats[0].Color != "#000000" {
		t.Errorf("update not applied: %+v", cats[0])
	}

	if err := s.DeleteCategory(ctx, user, "daily"); err != nil {
		t.Fatal(err)
	}
	if cats, _ := s.ListCategories(ctx, user); len(cats) != 0 {
		t.Errorf("expected no categories, got %+v", cats)
	}
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.GetProfile(ctx, user); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing profile, got %v", err)
	}

	p := core.Profile{UserID: user, FullName: "Ada Lovelace", Theme: "dark", Language: "en"}
	if err := s.UpsertProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetProfile(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Errorf("profile = %+v, want %+v", got, p)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedTx(t, s, "t1", "2024-01-15", "10", core.Expense, "daily")

	other, err := s.ListTransactions(ctx, "someone-else")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("user isolation broken: %+v", other)
	}
}
