package http

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

const (
	defaultTopCategories = 5
	defaultReportMonths  = 6
)

func (s *Server) handleTopCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	txType := core.Expense
	if raw := q.Get("type"); raw != "" {
		txType = core.TransactionType(raw)
		if !txType.Valid() {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "type must be income or expense"})
			return
		}
	}

	limit := defaultTopCategories
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	rows := report.TopCategories(s.session.Transactions(), s.session.Categories(), txType, limit)
	if rows == nil {
		rows = []report.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	months := defaultReportMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "months must be a positive integer"})
			return
		}
		months = n
	}

	series := report.MonthlyBars(s.session.Transactions(), months, core.DateOf(time.Now().UTC()))
	writeJSON(w, http.StatusOK, series)
}
