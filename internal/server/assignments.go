package server

import (
	"net/http"
)

type assignInput struct {
	SponsorID        string `form:"sponsor_id" json:"sponsorId"`
	ApplicantContact string `form:"applicant_contact" json:"applicantContact"`
}

func (s *Service) handleAssign(w http.ResponseWriter, r *http.Request) {

	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain actor")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	var input assignInput
	if err := s.decodeRequest(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid assignment payload"))
		return
	}

	rec, err := s.assignments.Assign(r.Context(), actor, input.SponsorID, input.ApplicantContact)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Service) handleListAssigned(w http.ResponseWriter, r *http.Request) {

	sponsorID := r.PathValue("sponsorID")

	assigned, err := s.assignments.ListAssigned(r.Context(), sponsorID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, assigned)
}
