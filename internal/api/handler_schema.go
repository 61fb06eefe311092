package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"omopgate/internal/catalog"
)

type tableInfoResponse struct {
	catalog.Table
	Columns *executeQueryResponse `json:"columns,omitempty"`
	Warning string                `json:"warning,omitempty"`
}

// ListTables returns the registered clinical tables.
func (h *Handler) ListTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tables": h.catalog.ListTables(),
	})
}

// TableInfo returns one table's registry entry plus live column
// introspection. Introspection runs through the gated pipeline; when it is
// refused or fails, the static registry entry still answers.
func (h *Handler) TableInfo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "table")

	table, err := h.catalog.LookupTable(name)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := tableInfoResponse{Table: table}
	cols, err := h.catalog.TableColumns(r.Context(), name)
	if err != nil {
		h.logger.Warn("live schema introspection unavailable", "table", name, "error", err)
		resp.Warning = "live schema unavailable, static registry entry only"
	} else {
		resp.Columns = &executeQueryResponse{
			Columns:  cols.Columns,
			Rows:     cols.Rows,
			RowCount: cols.RowCount,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
