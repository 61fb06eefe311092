package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"omopgate/internal/domain"
)

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var policy *domain.PolicyViolationError
	var executor *domain.ExecutorFailureError
	var validation *domain.ValidationError
	var notFound *domain.NotFoundError

	switch {
	case errors.As(err, &policy):
		return http.StatusForbidden
	case errors.As(err, &executor):
		return http.StatusBadGateway
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the JSON error payload for err. Error messages
// reaching this point are already policy reasons or sanitized text —
// nothing sensitive survives to here.
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var policy *domain.PolicyViolationError
	if errors.As(err, &policy) {
		resp.Kind = string(policy.Kind)
	}
	writeJSON(w, httpStatusFromDomainError(err), resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
