package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/daywise-ai/daywise/internal/domain"
	"github.com/daywise-ai/daywise/internal/store"
	"github.com/daywise-ai/daywise/internal/telemetry"
)

// Evaluator scores reflections for the curriculum machine.
type Evaluator interface {
	Evaluate(ctx context.Context, topic string, subtasks []string, reflection string) (domain.EvaluationVerdict, error)
}

// CompleteResult is the outcome of completing the active day.
type CompleteResult struct {
	Syllabus    *domain.Syllabus         `json:"syllabus"`
	Verdict     domain.EvaluationVerdict `json:"verdict"`
	Regenerated bool                     `json:"regenerated"`
}

// CurriculumService owns the process-resident syllabus and drives the
// per-day lifecycle: pending -> active -> {completed, skipped, leave}.
// Every transition that changes which day is active also evicts the
// outgoing day's DKB, so learned concepts never cross a day boundary.
type CurriculumService struct {
	mu        sync.Mutex
	evaluator Evaluator
	generator DayGenerator
	dkb       *store.DKBStore
	syllabus  *domain.Syllabus
	now       func() time.Time
}

// NewCurriculumService creates a new CurriculumService instance
func NewCurriculumService(evaluator Evaluator, generator DayGenerator, dkbStore *store.DKBStore) *CurriculumService {
	return &CurriculumService{
		evaluator: evaluator,
		generator: generator,
		dkb:       dkbStore,
		now:       time.Now,
	}
}

// Generate builds a fresh syllabus for the goal: days numbered from 1,
// dated from today, day 1 active. Replaces any previous syllabus.
func (s *CurriculumService) Generate(ctx context.Context, goal string, days int) (*domain.Syllabus, error) {
	if goal == "" {
		return nil, domain.ErrEmptyGoal
	}
	if days <= 0 {
		return nil, domain.ErrInvalidDayCount
	}

	plans, err := s.generator.PlanDays(ctx, goal, "", days)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to generate syllabus", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := dateOnly(s.now())
	syllabus := &domain.Syllabus{Goal: goal, Days: make([]*domain.SyllabusDay, len(plans))}
	for i, p := range plans {
		status := domain.DayStatusPending
		if i == 0 {
			status = domain.DayStatusActive
		}
		syllabus.Days[i] = domain.NewSyllabusDay(i+1, start.AddDate(0, 0, i), p.Topic, p.Subtasks, status)
	}

	s.syllabus = syllabus
	return syllabus, nil
}

// Current returns the resident syllabus.
func (s *CurriculumService) Current() (*domain.Syllabus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.syllabus == nil {
		return nil, domain.ErrSyllabusNotFound
	}
	return s.syllabus, nil
}

// Skip marks the active day skipped, shifts every later day's date by one,
// and activates the next pending day.
func (s *CurriculumService) Skip(dayNumber int) (*domain.Syllabus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.activeDayLocked(dayNumber)
	if err != nil {
		return nil, err
	}

	day.Status = domain.DayStatusSkipped
	s.shiftDatesLocked(day.DayNumber, 1)
	s.closeOutDayLocked(day)

	return s.syllabus, nil
}

// Leave marks the active day as leave for n days, shifts every later day's
// date by n, and activates the next pending day.
func (s *CurriculumService) Leave(dayNumber, n int) (*domain.Syllabus, error) {
	if n <= 0 {
		return nil, domain.ErrInvalidLeaveDays
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.activeDayLocked(dayNumber)
	if err != nil {
		return nil, err
	}

	day.Status = domain.DayStatusLeave
	s.shiftDatesLocked(day.DayNumber, n)
	s.closeOutDayLocked(day)

	return s.syllabus, nil
}

// Complete evaluates the reflection, regenerates the remaining days when
// the verdict recommends repeat or simplify (the only regeneration
// trigger), marks the day completed, and activates the next pending day.
// A reflection below the evaluation floor yields the default verdict
// rather than failing the transition.
func (s *CurriculumService) Complete(ctx context.Context, dayNumber int, reflection string) (*CompleteResult, error) {
	s.mu.Lock()
	day, err := s.activeDayLocked(dayNumber)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	topic := day.Topic
	subtasks := append([]string(nil), day.Subtasks...)
	goal := s.syllabus.Goal
	s.mu.Unlock()

	ctx, span := telemetry.StartSpan(ctx, "curriculum.complete", telemetry.SpanAttributes{
		Topic:     topic,
		DayNumber: dayNumber,
		Operation: "complete",
	})
	defer span.End()

	// Evaluation happens outside the lock: it is the slow model call, and
	// the day identity was captured above.
	verdict, err := s.evaluator.Evaluate(ctx, topic, subtasks, reflection)
	if err != nil && !errors.Is(err, domain.ErrReflectionTooShort) {
		verdict = domain.DefaultVerdict()
	}

	var plans []DayPlan
	regenerate := verdict.TriggersRegeneration()
	if regenerate {
		count := s.countLaterDays(dayNumber)
		if count > 0 {
			plans, err = s.generator.PlanDays(ctx, goal, topic, count)
			if err != nil {
				plans = FallbackPlan(goal, topic, count)
			}
		} else {
			regenerate = false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-validate under the lock; a concurrent transition may have won.
	day, lockErr := s.activeDayLocked(dayNumber)
	if lockErr != nil {
		return nil, lockErr
	}

	if regenerate {
		s.replaceLaterDaysLocked(day, plans)
	}

	completedAt := s.now().UTC()
	day.Status = domain.DayStatusCompleted
	day.LearningInput = reflection
	day.CompletedAt = &completedAt
	s.closeOutDayLocked(day)

	return &CompleteResult{
		Syllabus:    s.syllabus,
		Verdict:     verdict,
		Regenerated: regenerate,
	}, nil
}

// activeDayLocked resolves dayNumber to the active day or fails.
func (s *CurriculumService) activeDayLocked(dayNumber int) (*domain.SyllabusDay, error) {
	if s.syllabus == nil {
		return nil, domain.ErrSyllabusNotFound
	}

	day := s.syllabus.DayByNumber(dayNumber)
	if day == nil {
		return nil, domain.ErrDayNotFound
	}
	if day.Status != domain.DayStatusActive {
		return nil, domain.ErrDayNotActive
	}
	return day, nil
}

// closeOutDayLocked evicts the outgoing day's DKB and promotes the next
// pending day to active.
func (s *CurriculumService) closeOutDayLocked(day *domain.SyllabusDay) {
	s.dkb.Reset(day.Topic)

	next := s.nextPendingLocked()
	if next != nil {
		next.Status = domain.DayStatusActive
	}
}

// nextPendingLocked returns the lowest-numbered pending day, or nil.
func (s *CurriculumService) nextPendingLocked() *domain.SyllabusDay {
	var next *domain.SyllabusDay
	for _, d := range s.syllabus.Days {
		if d.Status != domain.DayStatusPending {
			continue
		}
		if next == nil || d.DayNumber < next.DayNumber {
			next = d
		}
	}
	return next
}

// shiftDatesLocked moves every day after dayNumber forward by delta days.
func (s *CurriculumService) shiftDatesLocked(dayNumber, delta int) {
	for _, d := range s.syllabus.Days {
		if d.DayNumber > dayNumber {
			d.Date = d.Date.AddDate(0, 0, delta)
		}
	}
}

// countLaterDays counts days strictly after dayNumber.
func (s *CurriculumService) countLaterDays(dayNumber int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.syllabus == nil {
		return 0
	}
	count := 0
	for _, d := range s.syllabus.Days {
		if d.DayNumber > dayNumber {
			count++
		}
	}
	return count
}

// replaceLaterDaysLocked swaps every day strictly after the completed one
// for fresh content, preserving the dayNumber sequence and recomputing
// dates consecutively from the day after the completed day.
func (s *CurriculumService) replaceLaterDaysLocked(completed *domain.SyllabusDay, plans []DayPlan) {
	var kept []*domain.SyllabusDay
	for _, d := range s.syllabus.Days {
		if d.DayNumber <= completed.DayNumber {
			kept = append(kept, d)
		}
	}

	for i, p := range plans {
		day := domain.NewSyllabusDay(
			completed.DayNumber+1+i,
			completed.Date.AddDate(0, 0, i+1),
			p.Topic,
			p.Subtasks,
			domain.DayStatusPending,
		)
		kept = append(kept, day)
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].DayNumber < kept[j].DayNumber })
	s.syllabus.Days = kept
}

// dateOnly truncates a time to its UTC date.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
