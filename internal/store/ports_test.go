package store

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestRemote(t *testing.T) {
	if Remote("op", nil) != nil {
		t.Error("nil error must stay nil")
	}

	cause := errors.New("connection refused")
	err := Remote("list transactions", cause)

	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %T", err)
	}
	if re.Op != "list transactions" {
		t.Errorf("op = %q", re.Op)
	}
	if !errors.Is(err, cause) {
		t.Error("cause must be reachable through Unwrap")
	}

	// Wrapping twice keeps the original operation.
	again := Remote("outer", err)
	var outer *RemoteError
	if !errors.As(again, &outer) || outer.Op != "list transactions" {
		t.Errorf("double wrap changed the error: %v", again)
	}
}

func TestTransactionPatch_ApplyTo(t *testing.T) {
	tx := core.Transaction{
		ID:          "t1",
		Date:        core.NewDate(2024, 1, 15),
		Amount:      decimal.NewFromInt(10),
		Description: "coffee",
		Category:    "daily",
		Type:        core.Expense,
	}

	desc := "espresso"
	amount := decimal.RequireFromString("2.5")
	TransactionPatch{Description: &desc, Amount: &amount}.ApplyTo(&tx)

	if tx.Description != "espresso" || !tx.Amount.Equal(amount) {
		t.Errorf("patch not applied: %+v", tx)
	}
	if tx.Category != "daily" || tx.Type != core.Expense {
		t.Errorf("nil patch fields must leave values alone: %+v", tx)
	}
}

func TestGoalPatch_ApplyTo(t *testing.T) {
	g := core.Goal{
		ID:            "g1",
		Title:         "vacation",
		TargetAmount:  decimal.NewFromInt(100),
		CurrentAmount: decimal.NewFromInt(40),
	}

	target := decimal.NewFromInt(200)
	GoalPatch{TargetAmount: &target}.ApplyTo(&g)

	if !g.TargetAmount.Equal(target) {
		t.Errorf("target = %s, want 200", g.TargetAmount)
	}
	if g.Title != "vacation" || !g.CurrentAmount.Equal(decimal.NewFromInt(40)) {
		t.Errorf("nil patch fields must leave values alone: %+v", g)
	}
}
