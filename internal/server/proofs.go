package server

import (
	"net/http"

	"stipendia/internal/workflow"
)

func (s *Service) handleSubmitProof(w http.ResponseWriter, r *http.Request) {

	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain actor")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	var input workflow.SubmitProofInput
	if err := s.decodeRequest(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid proof payload"))
		return
	}

	proof, err := s.proofs.Submit(r.Context(), actor, input)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, proof)
}

func (s *Service) handleListPendingProofs(w http.ResponseWriter, r *http.Request) {

	pending, err := s.proofs.ListPending(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pending)
}

func (s *Service) handleApproveProof(w http.ResponseWriter, r *http.Request) {

	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain actor")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	proofID := r.PathValue("proofID")

	proof, err := s.proofs.Approve(r.Context(), actor, proofID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, proof)
}

type rejectProofInput struct {
	Reason string `form:"reason" json:"reason"`
}

func (s *Service) handleRejectProof(w http.ResponseWriter, r *http.Request) {

	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain actor")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	proofID := r.PathValue("proofID")

	var input rejectProofInput
	if err := s.decodeRequest(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid reject payload"))
		return
	}

	proof, err := s.proofs.Reject(r.Context(), actor, proofID, input.Reason)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, proof)
}
