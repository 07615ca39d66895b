package analytics

import "coursetrack/internal/models"

const (
	// MaxForecastDays bounds the simulation; plans that need longer are reported
	// as undeterminable.
	MaxForecastDays = 365 * 5
	// MinWeeklyPlanHours is the smallest weekly plan that counts as a plan at all.
	MinWeeklyPlanHours = 0.1
)

// RemainingHours is the unwatched part of the course. It may be negative when
// reported positions overshoot the probed durations.
func RemainingHours(course *models.Course) float64 {
	return (course.TotalDuration - float64(course.WatchedSeconds())) / 3600
}

// ForecastFinishDate walks forward from today, spending each day's planned hours,
// and returns the first day on which nothing remains.
func ForecastFinishDate(course *models.Course, today models.Date) models.Forecast {
	remaining := RemainingHours(course)
	if remaining <= 0 {
		return models.Forecast{Status: models.ForecastAlreadyComplete}
	}
	if course.WeeklySchedule.Total() <= MinWeeklyPlanHours {
		return models.Forecast{Status: models.ForecastUndeterminable}
	}

	day := today
	for i := 0; i < MaxForecastDays; i++ {
		remaining -= course.WeeklySchedule.HoursOn(day.Weekday())
		if remaining <= 0 {
			return models.Forecast{Status: models.ForecastOnDate, Date: day}
		}
		day = day.AddDays(1)
	}
	return models.Forecast{Status: models.ForecastUndeterminable}
}
