package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// goalView is a goal plus its derived progress, which is never stored.
type goalView struct {
	core.Goal
	Progress decimal.Decimal `json:"progress"`
	Complete bool            `json:"complete"`
}

func newGoalView(g core.Goal) goalView {
	// Stored goals always have a positive target; a failure here means
	// corrupted data, shown as zero progress rather than a dropped row.
	progress, err := core.ProgressPercent(g)
	if err != nil {
		progress = decimal.Zero
	}
	return goalView{Goal: g, Progress: progress, Complete: g.Complete()}
}

// handleListGoals lists all goals, or only the savings goals still open
// for allocation when eligible=true.
func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.session.Goals()
	if r.URL.Query().Get("eligible") == "true" {
		goals = core.EligibleGoals(goals, time.Now().UTC())
	}
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, newGoalView(g))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.Goal
	if err := decodeJSON(r, &g); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	added, err := s.session.AddGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGoalView(added))
}

type goalPatchRequest struct {
	Type          *core.GoalType `json:"type"`
	TargetAmount  *string        `json:"target_amount"`
	CurrentAmount *string        `json:"current_amount"`
	StartDate     *core.Date     `json:"start_date"`
	EndDate       *core.Date     `json:"end_date"`
	Category      *string        `json:"category"`
	Title         *string        `json:"title"`
	Description   *string        `json:"description"`
}

func (req goalPatchRequest) toPatch() (store.GoalPatch, error) {
	patch := store.GoalPatch{
		Type:        req.Type,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.TargetAmount != nil {
		amount, err := core.ParseAmount(*req.TargetAmount)
		if err != nil {
			return store.GoalPatch{}, err
		}
		patch.TargetAmount = &amount
	}
	if req.CurrentAmount != nil {
		amount, err := core.ParseAmount(*req.CurrentAmount)
		if err != nil {
			return store.GoalPatch{}, err
		}
		patch.CurrentAmount = &amount
	}
	return patch, nil
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.session.UpdateGoal(r.Context(), r.PathValue("id"), patch); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAllocateToGoal records a transaction against a goal: income
// moves the goal forward, expense moves it back.
func (s *Server) handleAllocateToGoal(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	added, err := s.session.AllocateToGoal(r.Context(), r.PathValue("id"), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}
