package handler

import (
	"net/http"

	"github.com/Amit91848/Leetwars/internal/service"
	"github.com/Amit91848/Leetwars/internal/transport/rest/middleware"
)

// SessionHandler handles the session bootstrap endpoint
type SessionHandler struct {
	sessionSvc *service.SessionService
}

func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Get handles GET /sessions
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	resp, err := h.sessionSvc.GetSession(r.Context(), userID)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
