package analytics

import (
	"coursetrack/internal/models"

	"github.com/RoaringBitmap/roaring/v2"
)

// Streak describes runs of consecutive study days across all courses.
type Streak struct {
	Current    int         `json:"current"`
	Longest    int         `json:"longest"`
	ActiveDays int         `json:"active_days"`
	LastActive models.Date `json:"last_active"`
}

// StudyDays collects every day with positive ledger time, as day ordinals.
func StudyDays(courses []*models.Course) *roaring.Bitmap {
	days := roaring.New()
	for _, c := range courses {
		for key, seconds := range c.DailyStats {
			if seconds <= 0 {
				continue
			}
			day, err := models.ParseDate(key)
			if err != nil || day.Ordinal() < 0 {
				continue
			}
			days.Add(uint32(day.Ordinal()))
		}
	}
	return days
}

// ComputeStreak measures the current run ending today, or ending yesterday when
// nothing was studied yet today.
func ComputeStreak(courses []*models.Course, today models.Date) Streak {
	days := StudyDays(courses)
	s := Streak{ActiveDays: int(days.GetCardinality())}
	if days.IsEmpty() {
		return s
	}
	s.LastActive = models.DateFromOrdinal(int64(days.Maximum()))

	run, prev := 0, int64(-2)
	it := days.Iterator()
	for it.HasNext() {
		d := int64(it.Next())
		if d == prev+1 {
			run++
		} else {
			run = 1
		}
		if run > s.Longest {
			s.Longest = run
		}
		prev = d
	}

	end := today.Ordinal()
	if end < 0 {
		return s
	}
	if !days.Contains(uint32(end)) {
		end--
	}
	for end >= 0 && days.Contains(uint32(end)) {
		s.Current++
		end--
	}
	return s
}
