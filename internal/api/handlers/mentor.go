package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/daywise-ai/daywise/internal/api"
	"github.com/daywise-ai/daywise/internal/service"
)

type MentorService interface {
	Ask(ctx context.Context, input service.AskInput) (*service.AskOutput, error)
}

type MentorHandler struct {
	svc MentorService
}

func NewMentorHandler(svc MentorService) *MentorHandler {
	return &MentorHandler{svc: svc}
}

type AskRequest struct {
	Question string   `json:"question"`
	Topic    string   `json:"topic"`
	Subtasks []string `json:"subtasks"`
}

// Ask handles POST /mentor/ask. Refusals are successful responses with
// refused=true; only validation and internal faults map to error statuses.
func (h *MentorHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.Topic == "" {
		api.Error(w, http.StatusBadRequest, "topic is required")
		return
	}

	output, err := h.svc.Ask(r.Context(), service.AskInput{
		Question: req.Question,
		Topic:    req.Topic,
		Subtasks: req.Subtasks,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, output)
}
