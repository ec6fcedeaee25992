package http

import (
	"net/http"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]transactionPayload, len(transactions))
	for i, t := range transactions {
		out[i] = transactionToPayload(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := payload.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.budgets.CreateTransaction(r.Context(), t)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, transactionToPayload(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := payload.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = r.PathValue("id")

	// The budget link is owned by the allocation operation, not this
	// endpoint; carry the stored value regardless of what the body says.
	existing, err := s.store.GetTransaction(r.Context(), t.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	t.BudgetID = existing.BudgetID

	if err := t.Validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := s.store.UpdateTransaction(r.Context(), t); err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, transactionToPayload(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}
