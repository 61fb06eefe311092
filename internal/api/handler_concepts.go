package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"omopgate/internal/domain"
)

// LookupConcept resolves one OMOP concept ID from the dictionary.
func (h *Handler) LookupConcept(w http.ResponseWriter, r *http.Request) {
	if h.dictionary == nil {
		writeError(w, domain.ErrNotFound("concept dictionary not configured"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, domain.ErrValidation("invalid concept id"))
		return
	}

	concept, ok := h.dictionary.Lookup(id)
	if !ok {
		writeError(w, domain.ErrNotFound("concept %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, concept)
}

// SearchConcepts searches the dictionary by name or source description.
func (h *Handler) SearchConcepts(w http.ResponseWriter, r *http.Request) {
	if h.dictionary == nil {
		writeError(w, domain.ErrNotFound("concept dictionary not configured"))
		return
	}

	term := r.URL.Query().Get("search")
	if term == "" {
		writeError(w, domain.ErrValidation("search parameter is required"))
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			writeError(w, domain.ErrValidation("limit must be between 1 and 200"))
			return
		}
		limit = n
	}

	results := h.dictionary.Search(term, r.URL.Query().Get("domain"), limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"concepts": results,
		"count":    len(results),
	})
}
