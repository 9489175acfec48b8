package http

import (
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/report"
	"fintrack/internal/store"
)

// parseCriteria reads filter query parameters. Supported:
// start, end (YYYY-MM-DD), type, category (repeatable), q.
func parseCriteria(r *http.Request) (core.Criteria, error) {
	q := r.URL.Query()
	var c core.Criteria

	if raw := q.Get("start"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return core.Criteria{}, fmt.Errorf("start: %w", err)
		}
		c.Start = d
	}
	if raw := q.Get("end"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return core.Criteria{}, fmt.Errorf("end: %w", err)
		}
		c.End = d
	}
	c.Type = core.TransactionType(q.Get("type"))
	c.Categories = q["category"]
	c.Search = q.Get("q")
	return c, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	txs := core.SortByDateDesc(criteria.Apply(s.session.Transactions()))
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	added, err := s.session.AddTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

type transactionPatchRequest struct {
	Date               *core.Date               `json:"date"`
	Amount             *string                  `json:"amount"`
	Description        *string                  `json:"description"`
	Category           *string                  `json:"category"`
	Type               *core.TransactionType    `json:"type"`
	IsRecurring        *bool                    `json:"is_recurring"`
	RecurrenceInterval *core.RecurrenceInterval `json:"recurrence_interval"`
	NextDueDate        *core.Date               `json:"next_due_date"`
}

func (req transactionPatchRequest) toPatch() (store.TransactionPatch, error) {
	patch := store.TransactionPatch{
		Date:               req.Date,
		Description:        req.Description,
		Category:           req.Category,
		Type:               req.Type,
		IsRecurring:        req.IsRecurring,
		RecurrenceInterval: req.RecurrenceInterval,
		NextDueDate:        req.NextDueDate,
	}
	if req.Amount != nil {
		amount, err := core.ParseAmount(*req.Amount)
		if err != nil {
			return store.TransactionPatch{}, err
		}
		patch.Amount = &amount
	}
	return patch, nil
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.session.UpdateTransaction(r.Context(), r.PathValue("id"), patch); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportCSV streams the filtered transaction list as a CSV
// download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	txs := core.SortByDateDesc(criteria.Apply(s.session.Transactions()))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.CSVFilename(time.Now())+`"`)
	if err := report.WriteCSV(w, txs); err != nil {
		slogError(r, "CSV export failed", err)
	}
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	txs, err := report.ParseCSV(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	n, err := s.session.ImportTransactions(r.Context(), txs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": n})
}
