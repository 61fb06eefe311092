package api

import (
	"encoding/json"
	"net/http"

	"omopgate/internal/domain"
)

type executeQueryRequest struct {
	SQL string `json:"sql"`
}

type executeQueryResponse struct {
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int             `json:"row_count"`
	// Note flags small result sets whose statistics carry little weight.
	Note string `json:"note,omitempty"`
}

// ExecuteQuery runs one free-text analytic query through the full
// admission pipeline.
func (h *Handler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req executeQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	if req.SQL == "" {
		writeError(w, domain.ErrValidation("sql is required"))
		return
	}

	result, err := h.query.Execute(r.Context(), req.SQL)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := executeQueryResponse{
		Columns:  result.Columns,
		Rows:     result.Rows,
		RowCount: result.RowCount,
	}
	if result.RowCount > 0 && result.RowCount < 10 {
		resp.Note = "small result sets may have limited statistical significance"
	}
	writeJSON(w, http.StatusOK, resp)
}

// SecurityStatus reports rate-limiter, audit, and compliance state.
func (h *Handler) SecurityStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.gateway.Status())
}

// AuditSummary reports aggregate audit counts only.
func (h *Handler) AuditSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.gateway.AuditSummary())
}
