package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testSyllabus() *Syllabus {
	start := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	return &Syllabus{
		Goal: "learn AVL trees",
		Days: []*SyllabusDay{
			NewSyllabusDay(1, start, "Tree basics", []string{"nodes"}, DayStatusCompleted),
			NewSyllabusDay(2, start.AddDate(0, 0, 1), "Rotations", []string{"single"}, DayStatusActive),
			NewSyllabusDay(3, start.AddDate(0, 0, 2), "Balancing", nil, DayStatusPending),
		},
	}
}

func TestSyllabus_ActiveDay(t *testing.T) {
	s := testSyllabus()

	active := s.ActiveDay()
	assert.Equal(t, 2, active.DayNumber)

	active.Status = DayStatusCompleted
	assert.Nil(t, s.ActiveDay())
}

func TestSyllabus_DayByNumber(t *testing.T) {
	s := testSyllabus()

	assert.Equal(t, "Balancing", s.DayByNumber(3).Topic)
	assert.Nil(t, s.DayByNumber(9))
}

func TestValidateSyllabus(t *testing.T) {
	assert.NoError(t, ValidateSyllabus(testSyllabus()))
	assert.Error(t, ValidateSyllabus(nil))

	twoActive := testSyllabus()
	twoActive.Days[2].Status = DayStatusActive
	assert.Error(t, ValidateSyllabus(twoActive))

	dupNumbers := testSyllabus()
	dupNumbers.Days[2].DayNumber = 2
	assert.Error(t, ValidateSyllabus(dupNumbers))
}

func TestValidateSyllabusDay(t *testing.T) {
	day := NewSyllabusDay(1, time.Now(), "Rotations", nil, DayStatusPending)
	assert.NoError(t, ValidateSyllabusDay(day))

	assert.Error(t, ValidateSyllabusDay(nil))
	assert.Error(t, ValidateSyllabusDay(NewSyllabusDay(0, time.Now(), "Rotations", nil, DayStatusPending)))
	assert.Error(t, ValidateSyllabusDay(NewSyllabusDay(1, time.Now(), "", nil, DayStatusPending)))
	assert.Error(t, ValidateSyllabusDay(NewSyllabusDay(1, time.Now(), "Rotations", nil, "paused")))
}
