package http

import (
	"net/http"

	"budgeteer/internal/ingest"
)

type importRequest struct {
	Format  string `json:"format"`
	Account string `json:"account,omitempty"`
	Text    string `json:"text"`
}

type importResponse struct {
	Success       bool                 `json:"success"`
	Imported      []transactionPayload `json:"imported"`
	Duplicates    []transactionPayload `json:"duplicates"`
	Errors        []string             `json:"errors"`
	Skipped       int                  `json:"skipped"`
	ParsedCount   int                  `json:"parsed_count"`
	ImportedCount int                  `json:"imported_count"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	outcome, err := s.imports.ImportCSV(r.Context(), ingest.Format(req.Format), req.Text, req.Account)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := importResponse{
		Success:       outcome.Result.Success,
		Imported:      make([]transactionPayload, len(outcome.Imported)),
		Duplicates:    make([]transactionPayload, len(outcome.Duplicates)),
		Errors:        outcome.Result.Errors,
		Skipped:       outcome.Result.Skipped,
		ParsedCount:   len(outcome.Result.Transactions),
		ImportedCount: len(outcome.Imported),
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	for i, t := range outcome.Imported {
		resp.Imported[i] = transactionToPayload(t)
	}
	for i, t := range outcome.Duplicates {
		resp.Duplicates[i] = transactionToPayload(t)
	}

	status := http.StatusOK
	if !outcome.Result.Success {
		status = http.StatusUnprocessableEntity
	} else {
		s.invalidateSummaries()
	}
	writeJSON(w, status, resp)
}
