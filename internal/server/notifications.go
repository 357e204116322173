package server

import (
	"net/http"
)

func (s *Service) handleListUnread(w http.ResponseWriter, r *http.Request) {

	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain actor")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	recipient := r.URL.Query().Get("recipient")
	if recipient == "" {
		recipient = actor.Contact
	}

	unread, err := s.dispatcher.ListUnread(r.Context(), recipient)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, unread)
}

func (s *Service) handleMarkViewed(w http.ResponseWriter, r *http.Request) {

	notificationID := r.PathValue("notificationID")

	if err := s.dispatcher.MarkViewed(r.Context(), notificationID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "viewed"})
}
