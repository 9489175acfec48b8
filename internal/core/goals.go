package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyAllocation returns the goal with an allocation applied. The
// direction follows the paired transaction's type: income allocations add
// to the current amount, expense allocations (spend tracked against a
// goal) subtract from it. The result is deliberately not clamped;
// overshoot and negative balances are valid transient states that the
// caller decides how to display.
func ApplyAllocation(g Goal, amount decimal.Decimal, t TransactionType) Goal {
	g.CurrentAmount = g.CurrentAmount.Add(t.Signed(amount))
	return g
}

// ProgressPercent returns the goal's completion percentage clamped to
// [0, 100]. A non-positive target amount is a caller bug and fails with
// ErrInvalidGoalTarget.
func ProgressPercent(g Goal) (decimal.Decimal, error) {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero, ErrInvalidGoalTarget
	}
	hundred := decimal.NewFromInt(100)
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred)
	if pct.IsNegative() {
		return decimal.Zero, nil
	}
	if pct.GreaterThan(hundred) {
		return hundred, nil
	}
	return pct, nil
}

// EligibleGoals returns the savings goals still open for allocation as of
// the given instant: end date not passed and target not yet reached.
// Input order is preserved.
func EligibleGoals(goals []Goal, asOf time.Time) []Goal {
	cutoff := DateOf(asOf)
	var out []Goal
	for _, g := range goals {
		if g.Type != Savings {
			continue
		}
		if g.EndDate.Before(cutoff.Time) {
			continue
		}
		if g.Complete() {
			continue
		}
		out = append(out, g)
	}
	return out
}
