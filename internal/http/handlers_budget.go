package http

import (
	"net/http"
)

type budgetWithSummary struct {
	Budget  budgetPayload  `json:"budget"`
	Summary summaryPayload `json:"summary"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	summaries, ok := s.summaries.Get(summaryCacheKey)
	if !ok {
		var err error
		summaries, err = s.budgets.Summaries(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		s.summaries.Set(summaryCacheKey, summaries)
	}

	budgets, err := s.store.ListBudgets(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	byID := make(map[string]summaryPayload, len(summaries))
	for _, sum := range summaries {
		byID[sum.BudgetID] = summaryToPayload(sum)
	}

	out := make([]budgetWithSummary, len(budgets))
	for i, b := range budgets {
		out[i] = budgetWithSummary{
			Budget:  budgetToPayload(b),
			Summary: byID[b.ID],
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := payload.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.budgets.CreateBudget(r.Context(), b)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, budgetToPayload(created))
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.GetBudget(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetToPayload(b))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := payload.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.ID = r.PathValue("id")

	if err := s.budgets.UpdateBudget(r.Context(), b); err != nil {
		writeServiceError(w, err)
		return
	}

	updated, err := s.store.GetBudget(r.Context(), b.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, budgetToPayload(updated))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.DeleteBudget(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}

type allocateRequest struct {
	TransactionIDs []string `json:"transaction_ids"`
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	budgetID := r.PathValue("id")
	if err := s.budgets.Allocate(r.Context(), budgetID, req.TransactionIDs); err != nil {
		writeServiceError(w, err)
		return
	}

	b, err := s.store.GetBudget(r.Context(), budgetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, budgetToPayload(b))
}

func (s *Server) handleLifecycle(w http.ResponseWriter, r *http.Request) {
	points, err := s.budgets.Lifecycle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lifecycleToPayload(points))
}
