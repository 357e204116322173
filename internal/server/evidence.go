package server

import (
	"errors"
	"net/http"

	"stipendia/internal/storage"
)

// handleUploadEvidence accepts a multipart image upload and returns the
// content-addressed storage key. Workflow records carry only this key;
// inline payloads in case or proof bodies are rejected at validation.
func (s *Service) handleUploadEvidence(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseMultipartForm(s.config.EvidenceMaxSize); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart payload"))
		return
	}

	file, header, err := r.FormFile("evidence")
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("evidence file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := s.evidence.Put(r.Context(), file, contentType)
	if errors.Is(err, storage.ErrTooLarge) {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("evidence exceeds size limit"))
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to store evidence")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("failed to store evidence"))
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": s.evidence.PublicURL(key),
	})
}
