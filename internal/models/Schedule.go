package models

import (
	"fmt"
	"math"
)

const DaysPerWeek = 7

// WeeklySchedule holds planned study hours per weekday, indexed by Weekday.
type WeeklySchedule [DaysPerWeek]float64

// MustWeeklySchedule panics when hours does not hold exactly one value per weekday.
func MustWeeklySchedule(hours []float64) WeeklySchedule {
	if len(hours) != DaysPerWeek {
		panic(fmt.Sprintf("weekly schedule needs %d values, got %d", DaysPerWeek, len(hours)))
	}
	var s WeeklySchedule
	copy(s[:], hours)
	return s
}

func (s WeeklySchedule) HoursOn(day Weekday) float64 {
	return s[day]
}

func (s WeeklySchedule) Total() float64 {
	var total float64
	for _, h := range s {
		total += h
	}
	return total
}

// Validate rejects negative and non-finite values. There is no upper bound.
func (s WeeklySchedule) Validate() error {
	for i, h := range s {
		if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			return fmt.Errorf("%w: %s has %v hours", ErrInvalidSchedule, Weekday(i), h)
		}
	}
	return nil
}
