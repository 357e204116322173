package server

import (
	"encoding/json"
	"net/http"

	"stipendia/pkg/types"
)

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError maps the workflow error taxonomy onto HTTP statuses. Every
// taxonomy error carries a corrective message for the caller; anything
// else is a 500 and gets logged.
func (s *Service) writeError(w http.ResponseWriter, err error) {
	switch {
	case types.IsValidation(err):
		s.writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case types.IsAuthorization(err):
		s.writeJSON(w, http.StatusForbidden, errorBody(err.Error()))
	case types.IsNotFound(err):
		s.writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case types.IsPrecondition(err), types.IsInvalidTransition(err):
		s.writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	default:
		s.logger.WithError(err).Error("request failed")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
	}
}
