package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Amit91848/Leetwars/internal/model"
	"github.com/Amit91848/Leetwars/internal/service"
	"github.com/Amit91848/Leetwars/internal/transport/rest/middleware"
)

// SubmissionHandler handles submission endpoints
type SubmissionHandler struct {
	submissionSvc *service.SubmissionService
}

func NewSubmissionHandler(submissionSvc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// RecordSubmissionRequest is the request body for recording a submission
type RecordSubmissionRequest struct {
	Status    model.SubmissionStatus `json:"submissionStatus"`
	TitleSlug string                 `json:"questionTitleSlug"`
	URL       string                 `json:"url"`
}

// Record handles POST /submissions. Clients fire and forget; failures are
// logged but the response is always 200 so the editor flow never blocks
// on tracking.
func (h *SubmissionHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	username := middleware.GetUsername(r.Context())

	var req RecordSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.submissionSvc.RecordSubmission(r.Context(), userID, username, req.Status, req.TitleSlug, req.URL)
	if err != nil {
		log.Warn().Err(err).Str("userId", userID).Str("titleSlug", req.TitleSlug).
			Msg("failed to record submission")
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
