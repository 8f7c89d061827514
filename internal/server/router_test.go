package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/daywise-ai/daywise/internal/api/handlers"
	"github.com/daywise-ai/daywise/internal/domain"
	"github.com/daywise-ai/daywise/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMentorService struct {
	mock.Mock
}

func (m *MockMentorService) Ask(ctx context.Context, input service.AskInput) (*service.AskOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AskOutput), args.Error(1)
}

type MockEvaluationService struct {
	mock.Mock
}

func (m *MockEvaluationService) Evaluate(ctx context.Context, topic string, subtasks []string, reflection string) (domain.EvaluationVerdict, error) {
	args := m.Called(ctx, topic, subtasks, reflection)
	return args.Get(0).(domain.EvaluationVerdict), args.Error(1)
}

type MockCurriculumService struct {
	mock.Mock
}

func (m *MockCurriculumService) Generate(ctx context.Context, goal string, days int) (*domain.Syllabus, error) {
	args := m.Called(ctx, goal, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Syllabus), args.Error(1)
}

func (m *MockCurriculumService) Current() (*domain.Syllabus, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Syllabus), args.Error(1)
}

func (m *MockCurriculumService) Skip(dayNumber int) (*domain.Syllabus, error) {
	args := m.Called(dayNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Syllabus), args.Error(1)
}

func (m *MockCurriculumService) Leave(dayNumber, n int) (*domain.Syllabus, error) {
	args := m.Called(dayNumber, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Syllabus), args.Error(1)
}

func (m *MockCurriculumService) Complete(ctx context.Context, dayNumber int, reflection string) (*service.CompleteResult, error) {
	args := m.Called(ctx, dayNumber, reflection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CompleteResult), args.Error(1)
}

func newTestRouter(mentor *MockMentorService, eval *MockEvaluationService, curriculum *MockCurriculumService) http.Handler {
	return NewRouter(RouterConfig{
		MentorHandler:     handlers.NewMentorHandler(mentor),
		ReflectionHandler: handlers.NewReflectionHandler(eval),
		SyllabusHandler:   handlers.NewSyllabusHandler(curriculum),
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(new(MockMentorService), new(MockEvaluationService), new(MockCurriculumService))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_MentorAsk(t *testing.T) {
	mentor := new(MockMentorService)
	router := newTestRouter(mentor, new(MockEvaluationService), new(MockCurriculumService))

	mentor.On("Ask", mock.Anything, service.AskInput{
		Question: "How do rotations work?",
		Topic:    "AVL Trees",
		Subtasks: []string{"rotations"},
	}).Return(&service.AskOutput{Response: "Like this."}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"question": "How do rotations work?",
		"topic":    "AVL Trees",
		"subtasks": []string{"rotations"},
	})
	req := httptest.NewRequest(http.MethodPost, "/mentor/ask", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mentor.AssertExpectations(t)
}

func TestRouter_MentorAsk_MissingQuestion(t *testing.T) {
	mentor := new(MockMentorService)
	router := newTestRouter(mentor, new(MockEvaluationService), new(MockCurriculumService))

	body := []byte(`{"topic": "AVL Trees"}`)
	req := httptest.NewRequest(http.MethodPost, "/mentor/ask", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mentor.AssertNotCalled(t, "Ask")
}

func TestRouter_Reflection(t *testing.T) {
	eval := new(MockEvaluationService)
	router := newTestRouter(new(MockMentorService), eval, new(MockCurriculumService))

	verdict := domain.DefaultVerdict()
	eval.On("Evaluate", mock.Anything, "Graphs", []string{"BFS"}, mock.Anything).Return(verdict, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"topic":      "Graphs",
		"subtasks":   []string{"BFS"},
		"reflection": "Today I learned how breadth-first search visits nodes level by level using a queue.",
	})
	req := httptest.NewRequest(http.MethodPost, "/reflection", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	eval.AssertExpectations(t)
}

func TestRouter_SyllabusDayTransitions(t *testing.T) {
	curriculum := new(MockCurriculumService)
	router := newTestRouter(new(MockMentorService), new(MockEvaluationService), curriculum)

	syllabus := &domain.Syllabus{Goal: "learn Go"}
	curriculum.On("Skip", 2).Return(syllabus, nil)
	curriculum.On("Leave", 3, 2).Return(syllabus, nil)
	curriculum.On("Complete", mock.Anything, 4, "a reflection").
		Return(&service.CompleteResult{Syllabus: syllabus, Verdict: domain.DefaultVerdict()}, nil)

	req := httptest.NewRequest(http.MethodPost, "/syllabus/days/2/skip", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/syllabus/days/3/leave", bytes.NewReader([]byte(`{"days": 2}`)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/syllabus/days/4/complete", bytes.NewReader([]byte(`{"reflection": "a reflection"}`)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	curriculum.AssertExpectations(t)
}

func TestRouter_SyllabusGet_NotGenerated(t *testing.T) {
	curriculum := new(MockCurriculumService)
	router := newTestRouter(new(MockMentorService), new(MockEvaluationService), curriculum)

	curriculum.On("Current").Return(nil, domain.ErrSyllabusNotFound)

	req := httptest.NewRequest(http.MethodGet, "/syllabus", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}
