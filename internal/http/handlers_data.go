package http

import (
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Profile())
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var p core.Profile
	if err := decodeJSON(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := s.session.SaveProfile(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Profile())
}

// handleExportJSON streams the full archive: profile plus every
// transaction.
func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="fintrack_export.json"`)
	if err := report.ExportJSON(w, s.session.Profile(), s.session.Transactions()); err != nil {
		slogError(r, "JSON export failed", err)
	}
}

// handleImportJSON restores an archive. The profile is saved first, then
// every transaction is inserted; a malformed archive rejects the whole
// request before anything is written.
func (s *Server) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	archive, err := report.ImportJSON(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	if archive.Profile != (core.Profile{}) {
		if err := s.session.SaveProfile(r.Context(), archive.Profile); err != nil {
			writeError(w, r, err)
			return
		}
	}

	n, err := s.session.ImportTransactions(r.Context(), archive.Transactions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": n})
}

// handleDeleteMonth removes every transaction in one calendar month,
// given by the year and month query parameters.
func (s *Server) handleDeleteMonth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, errY := strconv.Atoi(q.Get("year"))
	month, errM := strconv.Atoi(q.Get("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "year and month query parameters are required"})
		return
	}

	if err := s.session.DeleteMonth(r.Context(), year, month); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteAll(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
