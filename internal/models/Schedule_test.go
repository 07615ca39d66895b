package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustWeeklySchedule(t *testing.T) {
	s := MustWeeklySchedule([]float64{1, 2, 3, 4, 5, 6, 7})
	assert.Equal(t, float64(1), s.HoursOn(Monday))
	assert.Equal(t, float64(7), s.HoursOn(Sunday))
	assert.Equal(t, float64(28), s.Total())

	assert.Panics(t, func() { MustWeeklySchedule([]float64{1, 2, 3}) })
	assert.Panics(t, func() { MustWeeklySchedule(make([]float64, 8)) })
}

func TestWeeklySchedule_Validate(t *testing.T) {
	assert.NoError(t, WeeklySchedule{}.Validate())
	assert.NoError(t, WeeklySchedule{24, 24, 24, 24, 24, 24, 100}.Validate())

	for _, bad := range []float64{-0.5, math.NaN(), math.Inf(1)} {
		s := WeeklySchedule{1, 1, 1, bad, 1, 1, 1}
		err := s.Validate()
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		assert.Contains(t, err.Error(), "Thursday")
	}
}
