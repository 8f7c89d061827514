package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/daywise-ai/daywise/internal/api"
	"github.com/daywise-ai/daywise/internal/domain"
	"github.com/daywise-ai/daywise/internal/service"
	"github.com/go-chi/chi/v5"
)

type CurriculumService interface {
	Generate(ctx context.Context, goal string, days int) (*domain.Syllabus, error)
	Current() (*domain.Syllabus, error)
	Skip(dayNumber int) (*domain.Syllabus, error)
	Leave(dayNumber, n int) (*domain.Syllabus, error)
	Complete(ctx context.Context, dayNumber int, reflection string) (*service.CompleteResult, error)
}

type SyllabusHandler struct {
	svc CurriculumService
}

func NewSyllabusHandler(svc CurriculumService) *SyllabusHandler {
	return &SyllabusHandler{svc: svc}
}

type GenerateRequest struct {
	Goal string `json:"goal"`
	Days int    `json:"days"`
}

type LeaveRequest struct {
	Days int `json:"days"`
}

type CompleteRequest struct {
	Reflection string `json:"reflection"`
}

// Get handles GET /syllabus.
func (h *SyllabusHandler) Get(w http.ResponseWriter, r *http.Request) {
	syllabus, err := h.svc.Current()
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, syllabus)
}

// Generate handles POST /syllabus/generate.
func (h *SyllabusHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Goal == "" {
		api.Error(w, http.StatusBadRequest, "goal is required")
		return
	}
	if req.Days <= 0 {
		api.Error(w, http.StatusBadRequest, "days must be greater than 0")
		return
	}

	syllabus, err := h.svc.Generate(r.Context(), req.Goal, req.Days)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, syllabus)
}

// Skip handles POST /syllabus/days/{n}/skip.
func (h *SyllabusHandler) Skip(w http.ResponseWriter, r *http.Request) {
	dayNumber, ok := dayNumberParam(w, r)
	if !ok {
		return
	}

	syllabus, err := h.svc.Skip(dayNumber)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, syllabus)
}

// Leave handles POST /syllabus/days/{n}/leave.
func (h *SyllabusHandler) Leave(w http.ResponseWriter, r *http.Request) {
	dayNumber, ok := dayNumberParam(w, r)
	if !ok {
		return
	}

	var req LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Days <= 0 {
		api.Error(w, http.StatusBadRequest, "days must be greater than 0")
		return
	}

	syllabus, err := h.svc.Leave(dayNumber, req.Days)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, syllabus)
}

// Complete handles POST /syllabus/days/{n}/complete.
func (h *SyllabusHandler) Complete(w http.ResponseWriter, r *http.Request) {
	dayNumber, ok := dayNumberParam(w, r)
	if !ok {
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Complete(r.Context(), dayNumber, req.Reflection)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

func dayNumberParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "n")
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		api.Error(w, http.StatusBadRequest, "invalid day number")
		return 0, false
	}
	return n, true
}
