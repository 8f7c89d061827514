package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/daywise-ai/daywise/internal/api"
	"github.com/daywise-ai/daywise/internal/domain"
)

type EvaluationService interface {
	Evaluate(ctx context.Context, topic string, subtasks []string, reflection string) (domain.EvaluationVerdict, error)
}

type ReflectionHandler struct {
	svc EvaluationService
}

func NewReflectionHandler(svc EvaluationService) *ReflectionHandler {
	return &ReflectionHandler{svc: svc}
}

type ReflectionRequest struct {
	Topic      string   `json:"topic"`
	Subtasks   []string `json:"subtasks"`
	Reflection string   `json:"reflection"`
}

// Submit handles POST /reflection.
func (h *ReflectionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ReflectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Topic == "" {
		api.Error(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.Reflection == "" {
		api.Error(w, http.StatusBadRequest, "reflection is required")
		return
	}

	verdict, err := h.svc.Evaluate(r.Context(), req.Topic, req.Subtasks, req.Reflection)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, verdict)
}
