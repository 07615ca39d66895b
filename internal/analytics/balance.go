package analytics

import "coursetrack/internal/models"

// Balance compares study time against the weekly plan over [start, asOf).
type Balance struct {
	ActualMinutes  float64 `json:"actual_minutes"`
	PlannedMinutes float64 `json:"planned_minutes"`
	BalanceMinutes float64 `json:"balance_minutes"`
}

// ComputeBalance returns actual minus planned study minutes since the course's
// start date, up to but excluding asOf. Positive means ahead of plan.
func ComputeBalance(course *models.Course, asOf models.Date) float64 {
	return BalanceBreakdown(course, asOf).BalanceMinutes
}

func BalanceBreakdown(course *models.Course, asOf models.Date) Balance {
	var b Balance
	start := course.EffectiveStartDate()
	if start.IsZero() || asOf.IsZero() || !start.Before(asOf) {
		return b
	}

	for day := start; day.Before(asOf); day = day.AddDays(1) {
		b.PlannedMinutes += course.WeeklySchedule.HoursOn(day.Weekday()) * 60
		b.ActualMinutes += course.StudySecondsOn(day) / 60
	}
	b.BalanceMinutes = b.ActualMinutes - b.PlannedMinutes
	return b
}
