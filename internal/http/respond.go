package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// validation sentinels that map to 422 rather than 500.
var validationErrors = []error{
	core.ErrInvalidDate,
	core.ErrInvalidAmount,
	core.ErrNegativeAmount,
	core.ErrEmptyDescription,
	core.ErrInvalidType,
	core.ErrInvalidRecurrence,
	core.ErrEmptyName,
	core.ErrEmptyTitle,
	core.ErrInvalidGoalType,
	core.ErrInvalidGoalTarget,
	core.ErrInvalidGoalDates,
}

// writeError maps domain and store errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}

	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
			return
		}
	}

	var re *store.RemoteError
	if errors.As(err, &re) {
		slog.ErrorContext(r.Context(), "Store operation failed", "op", re.Op, "error", re.Err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "store operation failed: " + re.Op})
		return
	}

	slog.ErrorContext(r.Context(), "Request failed", "url", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func slogError(r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "url", r.URL.Path, "error", err)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
