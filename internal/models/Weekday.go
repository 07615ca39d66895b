package models

import "time"

// Weekday numbers days Monday=0 … Sunday=6, matching WeeklySchedule indices.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayOf converts from the Sunday-first numbering used by the time package.
func WeekdayOf(w time.Weekday) Weekday {
	return Weekday((int(w) + 6) % DaysPerWeek)
}

func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return "Weekday(?)"
	}
	return weekdayNames[w]
}
