package api

import (
	"net/http"
	"strconv"

	"omopgate/internal/domain"
)

func limitParam(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.ErrValidation("invalid limit %q", v)
	}
	return n, nil
}

// Demographics serves the aggregated patient demographics report.
func (h *Handler) Demographics(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, 100)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.reports.Demographics(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, result)
}

// ConditionPrevalence serves the aggregated condition prevalence report.
func (h *Handler) ConditionPrevalence(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, 50)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.reports.ConditionPrevalence(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, result)
}

// Mortality serves the aggregated mortality statistics report.
func (h *Handler) Mortality(w http.ResponseWriter, r *http.Request) {
	result, err := h.reports.Mortality(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, result)
}

func writeResult(w http.ResponseWriter, result *domain.Result) {
	writeJSON(w, http.StatusOK, executeQueryResponse{
		Columns:  result.Columns,
		Rows:     result.Rows,
		RowCount: result.RowCount,
	})
}
