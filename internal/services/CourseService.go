package services

import (
	"coursetrack/internal/models"
	"coursetrack/internal/providers"
	"coursetrack/internal/storage/interfaces"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// CompletionRatio is the share of a video's duration after which it counts as watched.
const CompletionRatio = 0.9

type CourseServiceInterface interface {
	Load()
	Save() error
	Snapshot() *models.Document
	Replace(doc *models.Document) error
	ListCourses() []*models.Course
	GetCourse(id string) (*models.Course, error)
	AddCourse(name, path string, specs []models.VideoSpec, stats models.ScanStats) (*models.Course, error)
	DeleteCourse(id string) error
	ApplyProgress(courseID, relPath string, watchedSeconds int64, isAtEnd bool) (ProgressResult, error)
	SetWeeklySchedule(courseID string, schedule models.WeeklySchedule, startDate models.Date) error
	SetStartDate(courseID string, startDate models.Date) error
	GetWeeklySchedule(courseID string) (models.WeeklySchedule, error)
	ActivityLog() map[string]int
	CourseCount() int
	Revision() uint64
}

// ProgressResult describes what one progress report changed.
type ProgressResult struct {
	// Delta is the number of seconds added to today's ledger entry.
	Delta int64
	// Completed is true only on the call that marked the video completed.
	Completed bool
	Video     models.Video
}

// CourseService owns the in-memory course document. All mutations hold mu and
// end with a full save.
type CourseService struct {
	mu        sync.RWMutex
	doc       *models.Document
	persister interfaces.PersisterInterface
	clock     providers.Clock
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	revision  atomic.Uint64
	// dirty is set while the document holds changes the last save failed to write.
	dirty bool
}

func NewCourseService(persister interfaces.PersisterInterface, clock providers.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) *CourseService {
	return &CourseService{
		doc:       models.NewDocument(),
		persister: persister,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// NewCourseServiceInterface binds the concrete service to its interface for injection.
func NewCourseServiceInterface(s *CourseService) CourseServiceInterface {
	return s
}

// Load replaces the in-memory document with the persisted one. A missing or
// unreadable file leaves an empty collection; the failure is logged, not returned.
func (s *CourseService) Load() {
	doc, err := s.persister.Load()
	if err != nil {
		if errors.Is(err, models.ErrMalformedStorage) {
			s.logger.Errorf(providers.TypeStore, "Course file is corrupt, starting with an empty collection: %s", err)
		} else {
			s.logger.Errorf(providers.TypeStore, "Course file unreadable, starting with an empty collection: %s", err)
		}
		doc = models.NewDocument()
	}
	doc.Normalize()

	s.mu.Lock()
	s.doc = doc
	s.dirty = false
	s.mu.Unlock()
	s.revision.Inc()

	s.logger.Infof(providers.TypeStore, "Loaded %d courses", len(doc.Courses))
}

// Save writes the document only when an earlier save failed; mutations save themselves.
func (s *CourseService) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.persist()
}

// persist must be called with mu held.
func (s *CourseService) persist() error {
	start := time.Now()
	err := s.persister.Save(s.doc)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.dirty = err != nil
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while saving courses: %s", err)
		return fmt.Errorf("save courses: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the whole document.
func (s *CourseService) Snapshot() *models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Replace swaps in doc wholesale and saves it.
func (s *CourseService) Replace(doc *models.Document) error {
	cp := doc.Clone()
	cp.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = cp
	s.revision.Inc()
	return s.persist()
}

func (s *CourseService) ListCourses() []*models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	courses := make([]*models.Course, 0, len(s.doc.Courses))
	for _, c := range s.doc.Courses {
		courses = append(courses, c.Clone())
	}
	return courses
}

// find must be called with mu held.
func (s *CourseService) find(id string) (int, *models.Course) {
	for i, c := range s.doc.Courses {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}

func (s *CourseService) GetCourse(id string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, c := s.find(id)
	if c == nil {
		return nil, models.ErrCourseNotFound
	}
	return c.Clone(), nil
}

func (s *CourseService) AddCourse(name, path string, specs []models.VideoSpec, stats models.ScanStats) (*models.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: course name is empty", models.ErrInvalidInput)
	}

	course := &models.Course{
		ID:         uuid.NewString(),
		Name:       name,
		RootPath:   path,
		AddedAt:    models.NewTimestamp(s.clock.Now()),
		Videos:     make([]models.Video, 0, len(specs)),
		DailyStats: make(map[string]float64),
	}

	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if spec.RelPath == "" {
			continue
		}
		if _, dup := seen[spec.RelPath]; dup {
			s.logger.Warnf(providers.TypeStore, "Duplicate video %q in scan of %s, keeping the first", spec.RelPath, path)
			continue
		}
		seen[spec.RelPath] = struct{}{}

		duration := spec.Duration
		if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
			duration = 0
		}
		course.Videos = append(course.Videos, models.Video{RelPath: spec.RelPath, Duration: duration})
		course.TotalDuration += duration
	}
	course.TotalVideos = len(course.Videos)

	if stats.TotalVideos != course.TotalVideos || math.Abs(stats.TotalDuration-course.TotalDuration) > 0.5 {
		s.logger.Warnf(providers.TypeStore, "Scan totals for %s (%d videos, %.1fs) differ from the video list (%d videos, %.1fs)",
			path, stats.TotalVideos, stats.TotalDuration, course.TotalVideos, course.TotalDuration)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Courses = append(s.doc.Courses, course)
	s.revision.Inc()
	s.logger.Infof(providers.TypeStore, "Added course %s %q with %d videos", course.ID, course.Name, course.TotalVideos)

	return course.Clone(), s.persist()
}

// DeleteCourse removes the course with its videos and ledger. Unknown ids are a no-op.
func (s *CourseService) DeleteCourse(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, c := s.find(id)
	if c == nil {
		return nil
	}
	s.doc.Courses = append(s.doc.Courses[:i], s.doc.Courses[i+1:]...)
	s.revision.Inc()
	s.logger.Infof(providers.TypeStore, "Deleted course %s", id)
	return s.persist()
}

// ApplyProgress records a playback position report for one video.
//
// Reports that do not move the position forward leave the ledger untouched; they
// only matter when isAtEnd is set. Completion is sticky and logs exactly one
// activity event per video.
func (s *CourseService) ApplyProgress(courseID, relPath string, watchedSeconds int64, isAtEnd bool) (ProgressResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, course := s.find(courseID)
	if course == nil {
		s.metrics.IncProgressUpdates(providers.ProgressNotFound)
		s.logger.Warnf(providers.TypeStore, "Progress for unknown course %s", courseID)
		return ProgressResult{}, models.ErrCourseNotFound
	}
	video, ok := course.FindVideo(relPath)
	if !ok {
		s.metrics.IncProgressUpdates(providers.ProgressNotFound)
		s.logger.Warnf(providers.TypeStore, "Progress for unknown video %q in course %s", relPath, courseID)
		return ProgressResult{}, models.ErrVideoNotFound
	}

	now := s.clock.Now()
	today := models.DateOf(now).String()
	advanced := watchedSeconds > video.WatchedSeconds

	if !advanced && !isAtEnd {
		s.metrics.IncProgressUpdates(providers.ProgressUnchanged)
		return ProgressResult{Video: *video}, nil
	}

	var result ProgressResult
	if advanced {
		result.Delta = watchedSeconds - video.WatchedSeconds
		course.DailyStats[today] += float64(result.Delta)
		video.WatchedSeconds = watchedSeconds
		s.metrics.IncProgressUpdates(providers.ProgressAdvanced)
	} else {
		s.metrics.IncProgressUpdates(providers.ProgressUnchanged)
	}

	if !video.Completed && (isAtEnd || reachedCompletion(video)) {
		video.Completed = true
		s.doc.ActivityLog[today]++
		result.Completed = true
		s.metrics.IncCompletions()
		s.logger.Infof(providers.TypeStore, "Completed %q in course %s", relPath, courseID)
	}

	video.LastWatchedAt = models.NewTimestamp(now)
	s.revision.Inc()
	result.Video = *video

	return result, s.persist()
}

// reachedCompletion ignores videos whose duration could not be probed.
func reachedCompletion(v *models.Video) bool {
	return v.Duration > 0 && float64(v.WatchedSeconds) >= CompletionRatio*v.Duration
}

// SetWeeklySchedule replaces the schedule wholesale. A zero startDate keeps the
// current one. Invalid schedules are rejected before anything changes.
func (s *CourseService) SetWeeklySchedule(courseID string, schedule models.WeeklySchedule, startDate models.Date) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, course := s.find(courseID)
	if course == nil {
		return models.ErrCourseNotFound
	}
	course.WeeklySchedule = schedule
	if !startDate.IsZero() {
		course.StartDate = startDate
	}
	s.revision.Inc()
	return s.persist()
}

func (s *CourseService) SetStartDate(courseID string, startDate models.Date) error {
	if startDate.IsZero() {
		return fmt.Errorf("%w: start date is empty", models.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, course := s.find(courseID)
	if course == nil {
		return models.ErrCourseNotFound
	}
	course.StartDate = startDate
	s.revision.Inc()
	return s.persist()
}

// GetWeeklySchedule returns all zeros for courses that never had a schedule.
func (s *CourseService) GetWeeklySchedule(courseID string) (models.WeeklySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, course := s.find(courseID)
	if course == nil {
		return models.WeeklySchedule{}, models.ErrCourseNotFound
	}
	return course.WeeklySchedule, nil
}

func (s *CourseService) ActivityLog() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log := make(map[string]int, len(s.doc.ActivityLog))
	for k, v := range s.doc.ActivityLog {
		log[k] = v
	}
	return log
}

func (s *CourseService) CourseCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.Courses)
}

// Revision changes after every mutation; read caches key on it.
func (s *CourseService) Revision() uint64 {
	return s.revision.Load()
}
