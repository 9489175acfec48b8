package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthBucket holds the income and expense sums for one calendar month.
type MonthBucket struct {
	Label   string          `json:"name"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// TotalOf sums the amounts of transactions matching the given type. With
// the zero type it returns the net balance, income minus expense. An empty
// input yields zero.
func TotalOf(txs []Transaction, t TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		switch {
		case t == "":
			total = total.Add(tx.Type.Signed(tx.Amount))
		case tx.Type == t:
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// TotalsByCategory accumulates signed amounts per category id: income adds,
// expense subtracts. Categories without transactions do not appear in the
// result.
func TotalsByCategory(txs []Transaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		totals[tx.Category] = totals[tx.Category].Add(tx.Type.Signed(tx.Amount))
	}
	return totals
}

// PercentChange returns the relative change from previous to current in
// percent. A zero previous value yields zero: this is a deliberate
// saturating policy to avoid division by zero, not a mathematical limit.
func PercentChange(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// MonthlySeries buckets transactions into monthCount consecutive calendar
// months ending at the month containing endingAt, oldest first. Month
// boundaries are inclusive on both ends; a transaction dated on the first
// or last day of a month belongs to that month.
func MonthlySeries(txs []Transaction, monthCount int, endingAt time.Time) []MonthBucket {
	if monthCount <= 0 {
		return nil
	}
	series := make([]MonthBucket, 0, monthCount)
	for i := monthCount - 1; i >= 0; i-- {
		start := startOfMonth(endingAt.AddDate(0, -i, -endingAt.Day()+1))
		end := endOfMonth(start)

		bucket := MonthBucket{
			Label:   start.Format("Jan 2006"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		for _, tx := range txs {
			if tx.Date.Before(start) || tx.Date.After(end) {
				continue
			}
			switch tx.Type {
			case Income:
				bucket.Income = bucket.Income.Add(tx.Amount)
			case Expense:
				bucket.Expense = bucket.Expense.Add(tx.Amount)
			}
		}
		series = append(series, bucket)
	}
	return series
}

// MonthRange returns the inclusive calendar bounds of the month containing t.
func MonthRange(t time.Time) (Date, Date) {
	start := startOfMonth(t)
	return Date{Time: start}, Date{Time: endOfMonth(start)}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(start time.Time) time.Time {
	return start.AddDate(0, 1, -1)
}
