package server

import (
	"net/http"

	"stipendia/internal/workflow"
)

func (s *Service) handleAddFee(w http.ResponseWriter, r *http.Request) {

	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain actor")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	var input workflow.AddFeeInput
	if err := s.decodeRequest(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid fee payload"))
		return
	}

	entry, err := s.fees.Add(r.Context(), actor, input)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Service) handleListFees(w http.ResponseWriter, r *http.Request) {

	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain actor")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	applicant := r.URL.Query().Get("applicant")
	if applicant == "" {
		applicant = actor.Contact
	}

	entries, err := s.fees.ListByApplicant(r.Context(), applicant)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Service) handleUpdateFee(w http.ResponseWriter, r *http.Request) {

	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain actor")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	feeID := r.PathValue("feeID")

	var input workflow.UpdateFeeInput
	if err := s.decodeRequest(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid fee payload"))
		return
	}

	entry, err := s.fees.Update(r.Context(), actor, feeID, input)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, entry)
}
