package analytics

import "coursetrack/internal/models"

// TodayProgress returns the seconds studied on today for this course.
func TodayProgress(course *models.Course, today models.Date) float64 {
	return course.StudySecondsOn(today)
}

// PlannedHoursOn returns the scheduled hours for day's weekday.
func PlannedHoursOn(course *models.Course, day models.Date) float64 {
	return course.WeeklySchedule.HoursOn(day.Weekday())
}

// Summary gathers the dashboard figures for one course.
type Summary struct {
	CourseID        string             `json:"course_id"`
	Name            string             `json:"name"`
	CompletedVideos int                `json:"completed_videos"`
	TotalVideos     int                `json:"total_videos"`
	WatchedHours    float64            `json:"watched_hours"`
	TotalHours      float64            `json:"total_hours"`
	RemainingHours  float64            `json:"remaining_hours"`
	TodaySeconds    float64            `json:"today_seconds"`
	PlanTodayHours  float64            `json:"plan_today_hours"`
	StartDate       models.Date        `json:"start_date"`
	DaysSinceStart  int                `json:"days_since_start"`
	DaysToFinish    int                `json:"days_to_finish"`
	Balance         Balance            `json:"balance"`
	Forecast        models.Forecast    `json:"-"`
	DailyStats      map[string]float64 `json:"daily_stats"`
}

func Summarize(course *models.Course, today models.Date) Summary {
	remaining := RemainingHours(course)
	if remaining < 0 {
		remaining = 0
	}
	start := course.EffectiveStartDate()
	sinceStart := 0
	if !start.IsZero() && !start.After(today) {
		sinceStart = start.DaysUntil(today)
	}
	forecast := ForecastFinishDate(course, today)
	toFinish := 0
	if forecast.Status == models.ForecastOnDate {
		toFinish = today.DaysUntil(forecast.Date)
	}
	daily := make(map[string]float64, len(course.DailyStats))
	for k, v := range course.DailyStats {
		daily[k] = v
	}

	return Summary{
		CourseID:        course.ID,
		Name:            course.Name,
		CompletedVideos: course.CompletedVideos(),
		TotalVideos:     len(course.Videos),
		WatchedHours:    float64(course.WatchedSeconds()) / 3600,
		TotalHours:      course.TotalDuration / 3600,
		RemainingHours:  remaining,
		TodaySeconds:    TodayProgress(course, today),
		PlanTodayHours:  PlannedHoursOn(course, today),
		StartDate:       start,
		DaysSinceStart:  sinceStart,
		DaysToFinish:    toFinish,
		Balance:         BalanceBreakdown(course, today),
		Forecast:        forecast,
		DailyStats:      daily,
	}
}
