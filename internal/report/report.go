// Package report derives presentation-ready views from a transaction
// snapshot: top-category rankings, chart series, CSV files and the JSON
// archive. Everything here is recomputed from scratch on each call.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// CategoryTotal is one row of a top-categories ranking.
type CategoryTotal struct {
	CategoryID     string          `json:"category_id"`
	Name           string          `json:"name"`
	Color          string          `json:"color"`
	Total          decimal.Decimal `json:"total"`
	PercentOfTotal decimal.Decimal `json:"percent_of_total"`
}

// fallbackColor is used for transactions whose category was deleted.
const fallbackColor = "#9CA3AF"

// TopCategories ranks categories by total amount for one transaction
// type, largest first, truncated to n rows. Categories with a zero total
// are omitted. PercentOfTotal is each row's share of the grand total for
// that type; when the grand total is zero every share is zero.
//
// Transactions referencing a deleted category still count: the row falls
// back to the raw category id and a neutral color.
func TopCategories(txs []core.Transaction, cats []core.Category, t core.TransactionType, n int) []CategoryTotal {
	if n <= 0 {
		return nil
	}

	totals := make(map[string]decimal.Decimal)
	grand := decimal.Zero
	for _, tx := range txs {
		if tx.Type != t {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		grand = grand.Add(tx.Amount)
	}

	byID := make(map[string]core.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	rows := make([]CategoryTotal, 0, len(totals))
	for id, total := range totals {
		if !total.IsPositive() {
			continue
		}
		row := CategoryTotal{CategoryID: id, Name: id, Color: fallbackColor, Total: total}
		if c, ok := byID[id]; ok {
			row.Name = c.Name
			row.Color = c.Color
		}
		if grand.IsPositive() {
			row.PercentOfTotal = total.Div(grand).Mul(decimal.NewFromInt(100))
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Total.Equal(rows[j].Total) {
			return rows[i].Total.GreaterThan(rows[j].Total)
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// CategoryPie returns chart points for a per-category breakdown of one
// transaction type, largest slice first.
func CategoryPie(txs []core.Transaction, cats []core.Category, t core.TransactionType) []core.ChartPoint {
	rows := TopCategories(txs, cats, t, len(txs))
	points := make([]core.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, core.ChartPoint{Name: r.Name, Value: r.Total, Color: r.Color})
	}
	return points
}

// MonthlyBars returns the income/expense series for the last monthCount
// calendar months, oldest first.
func MonthlyBars(txs []core.Transaction, monthCount int, endingAt core.Date) []core.MonthBucket {
	return core.MonthlySeries(txs, monthCount, endingAt.Time)
}
