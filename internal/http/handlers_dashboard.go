package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

const dashboardMonths = 6

type dashboardResponse struct {
	Month          string             `json:"month"`
	Income         decimal.Decimal    `json:"income"`
	Expense        decimal.Decimal    `json:"expense"`
	Balance        decimal.Decimal    `json:"balance"`
	BalanceDisplay string             `json:"balance_display"`
	IncomeChange   decimal.Decimal    `json:"income_change"`
	ExpenseChange  decimal.Decimal    `json:"expense_change"`
	ExpensePie     []core.ChartPoint  `json:"expense_pie"`
	Monthly        []core.MonthBucket `json:"monthly"`
}

// handleDashboard summarizes one calendar month: totals, deltas against
// the previous month, the expense breakdown and the recent monthly
// series. The month query parameter (YYYY-MM) defaults to the current
// month.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	at := time.Now().UTC()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "month must be YYYY-MM"})
			return
		}
		at = parsed
	}

	all := s.session.Transactions()
	cats := s.session.Categories()

	start, end := core.MonthRange(at)
	current := core.Criteria{Start: start, End: end}.Apply(all)

	prevStart, prevEnd := core.MonthRange(at.AddDate(0, -1, -at.Day()+1))
	previous := core.Criteria{Start: prevStart, End: prevEnd}.Apply(all)

	income := core.TotalOf(current, core.Income)
	expense := core.TotalOf(current, core.Expense)
	balance := core.TotalOf(current, "")

	resp := dashboardResponse{
		Month:          start.Format("2006-01"),
		Income:         income,
		Expense:        expense,
		Balance:        balance,
		BalanceDisplay: report.FormatEUR(balance),
		IncomeChange:   core.PercentChange(core.TotalOf(previous, core.Income), income),
		ExpenseChange:  core.PercentChange(core.TotalOf(previous, core.Expense), expense),
		ExpensePie:     report.CategoryPie(current, cats, core.Expense),
		Monthly:        report.MonthlyBars(all, dashboardMonths, end),
	}
	writeJSON(w, http.StatusOK, resp)
}
