package models

// Video is a single lecture file inside a course. RelPath is unique per course.
type Video struct {
	RelPath        string    `json:"rel_path"`
	Duration       float64   `json:"duration"`
	WatchedSeconds int64     `json:"watched_duration"`
	Completed      bool      `json:"completed"`
	LastWatchedAt  Timestamp `json:"last_watched"`
}

type Course struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	RootPath       string             `json:"path"`
	AddedAt        Timestamp          `json:"added_at"`
	TotalVideos    int                `json:"total_videos"`
	TotalDuration  float64            `json:"total_duration"`
	Videos         []Video            `json:"videos"`
	DailyStats     map[string]float64 `json:"daily_stats"`
	WeeklySchedule WeeklySchedule     `json:"weekly_schedule"`
	StartDate      Date               `json:"start_date"`
}

// FindVideo returns a pointer into c.Videos so callers can mutate the record in place.
func (c *Course) FindVideo(relPath string) (*Video, bool) {
	for i := range c.Videos {
		if c.Videos[i].RelPath == relPath {
			return &c.Videos[i], true
		}
	}
	return nil, false
}

func (c *Course) WatchedSeconds() int64 {
	var total int64
	for _, v := range c.Videos {
		total += v.WatchedSeconds
	}
	return total
}

func (c *Course) CompletedVideos() int {
	n := 0
	for _, v := range c.Videos {
		if v.Completed {
			n++
		}
	}
	return n
}

// EffectiveStartDate falls back to the day the course was added when no start
// date was ever set.
func (c *Course) EffectiveStartDate() Date {
	if !c.StartDate.IsZero() {
		return c.StartDate
	}
	if c.AddedAt.IsZero() {
		return Date{}
	}
	return DateOf(c.AddedAt.Time)
}

// StudySecondsOn returns the ledger entry for day, zero when absent.
func (c *Course) StudySecondsOn(day Date) float64 {
	return c.DailyStats[day.String()]
}

func (c *Course) normalize() {
	if c.Videos == nil {
		c.Videos = make([]Video, 0)
	}
	if c.DailyStats == nil {
		c.DailyStats = make(map[string]float64)
	}
}

func (c *Course) Clone() *Course {
	cp := *c
	cp.Videos = make([]Video, len(c.Videos))
	copy(cp.Videos, c.Videos)
	cp.DailyStats = make(map[string]float64, len(c.DailyStats))
	for k, v := range c.DailyStats {
		cp.DailyStats[k] = v
	}
	return &cp
}
