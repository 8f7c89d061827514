package domain

import (
	"fmt"
	"time"
)

// DayStatus represents the lifecycle status of a syllabus day
type DayStatus string

const (
	DayStatusPending   DayStatus = "pending"
	DayStatusActive    DayStatus = "active"
	DayStatusCompleted DayStatus = "completed"
	DayStatusSkipped   DayStatus = "skipped"
	DayStatusLeave     DayStatus = "leave"
)

// SyllabusDay is one day of the learning plan. DayNumber is a stable
// identity; Date is recomputed whenever an earlier day is skipped or
// put on leave.
type SyllabusDay struct {
	DayNumber     int        `json:"day_number"`
	Date          time.Time  `json:"date"`
	Topic         string     `json:"topic"`
	Subtasks      []string   `json:"subtasks"`
	Status        DayStatus  `json:"status"`
	LearningInput string     `json:"learning_input,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Syllabus is the full day-by-day plan. Invariant: at most one day is
// active at any time.
type Syllabus struct {
	Goal string         `json:"goal"`
	Days []*SyllabusDay `json:"days"`
}

// NewSyllabusDay creates a new SyllabusDay instance
func NewSyllabusDay(dayNumber int, date time.Time, topic string, subtasks []string, status DayStatus) *SyllabusDay {
	return &SyllabusDay{
		DayNumber: dayNumber,
		Date:      date,
		Topic:     topic,
		Subtasks:  append([]string(nil), subtasks...),
		Status:    status,
	}
}

// ActiveDay returns the single active day, or nil if none is active.
func (s *Syllabus) ActiveDay() *SyllabusDay {
	for _, d := range s.Days {
		if d.Status == DayStatusActive {
			return d
		}
	}
	return nil
}

// DayByNumber returns the day with the given stable number, or nil.
func (s *Syllabus) DayByNumber(n int) *SyllabusDay {
	for _, d := range s.Days {
		if d.DayNumber == n {
			return d
		}
	}
	return nil
}

// ValidateSyllabus validates a Syllabus instance, including the
// single-active-day invariant.
func ValidateSyllabus(s *Syllabus) error {
	if s == nil {
		return fmt.Errorf("syllabus cannot be nil")
	}

	active := 0
	seen := make(map[int]struct{}, len(s.Days))
	for _, d := range s.Days {
		if err := ValidateSyllabusDay(d); err != nil {
			return err
		}
		if _, ok := seen[d.DayNumber]; ok {
			return fmt.Errorf("syllabus has duplicate day number %d", d.DayNumber)
		}
		seen[d.DayNumber] = struct{}{}
		if d.Status == DayStatusActive {
			active++
		}
	}

	if active > 1 {
		return fmt.Errorf("syllabus has %d active days, at most one allowed", active)
	}

	return nil
}

// ValidateSyllabusDay validates a SyllabusDay instance
func ValidateSyllabusDay(d *SyllabusDay) error {
	if d == nil {
		return fmt.Errorf("syllabus day cannot be nil")
	}

	if d.DayNumber <= 0 {
		return fmt.Errorf("syllabus day DayNumber must be greater than 0")
	}

	if d.Topic == "" {
		return fmt.Errorf("syllabus day Topic is required")
	}

	if !isValidDayStatus(d.Status) {
		return fmt.Errorf("syllabus day Status is invalid: %s", d.Status)
	}

	return nil
}

// isValidDayStatus checks if a DayStatus is valid
func isValidDayStatus(s DayStatus) bool {
	switch s {
	case DayStatusPending, DayStatusActive, DayStatusCompleted,
		DayStatusSkipped, DayStatusLeave:
		return true
	}
	return false
}
