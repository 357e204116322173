package server

import (
	"net/http"
	"strings"

	"stipendia/internal/workflow"
	"stipendia/pkg/types"
)

func (s *Service) handleSubmitCase(w http.ResponseWriter, r *http.Request) {

	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain actor")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	var input workflow.SubmitCaseInput
	if err := s.decodeRequest(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid case payload"))
		return
	}

	c, err := s.cases.Submit(r.Context(), actor, input)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, c)
}

func (s *Service) handleListCases(w http.ResponseWriter, r *http.Request) {

	status := types.CaseStatus(strings.ToUpper(r.URL.Query().Get("status")))

	cases, err := s.cases.ListByStatus(r.Context(), status)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, cases)
}

func (s *Service) handleGetCase(w http.ResponseWriter, r *http.Request) {

	caseID := r.PathValue("caseID")

	c, err := s.cases.Get(r.Context(), caseID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, c)
}

type reviewCaseInput struct {
	Decision string `form:"decision" json:"decision"`
	Reason   string `form:"reason" json:"reason"`
}

func (s *Service) handleReviewCase(w http.ResponseWriter, r *http.Request) {

	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain actor")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	caseID := r.PathValue("caseID")

	var input reviewCaseInput
	if err := s.decodeRequest(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid review payload"))
		return
	}

	decision := types.CaseStatus(strings.ToUpper(input.Decision))

	c, err := s.cases.Review(r.Context(), actor, caseID, decision, input.Reason)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, c)
}
