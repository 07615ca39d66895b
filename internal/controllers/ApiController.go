package controllers

import (
	"coursetrack/internal/analytics"
	"coursetrack/internal/models"
	"coursetrack/internal/providers"
	"coursetrack/internal/scanner"
	"coursetrack/internal/services"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.CourseServiceInterface
	cache   providers.CacheProviderInterface
	scanner scanner.ScannerInterface
	clock   providers.Clock
}

func NewApiController(logger providers.Logger, service services.CourseServiceInterface, cache providers.CacheProviderInterface, scanner scanner.ScannerInterface, clock providers.Clock) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
		scanner: scanner,
		clock:   clock,
	}
}

type addCourseRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type progressRequest struct {
	CourseID       string `json:"course_id"`
	RelPath        string `json:"rel_path"`
	WatchedSeconds any    `json:"watched_seconds"`
	IsAtEnd        bool   `json:"is_at_end"`
}

type progressResponse struct {
	Delta     int64        `json:"delta"`
	Completed bool         `json:"completed"`
	Video     models.Video `json:"video"`
}

type scheduleRequest struct {
	CourseID  string    `json:"course_id"`
	Schedule  []float64 `json:"schedule"`
	StartDate string    `json:"start_date"`
}

type balanceResponse struct {
	CourseID string      `json:"course_id"`
	AsOf     models.Date `json:"as_of"`
	analytics.Balance
}

type forecastResponse struct {
	Status string `json:"status"`
	Date   string `json:"date,omitempty"`
}

type summaryResponse struct {
	analytics.Summary
	Forecast forecastResponse `json:"forecast"`
}

type scheduleResponse struct {
	CourseID string                `json:"course_id"`
	Schedule models.WeeklySchedule `json:"schedule"`
}

type activityResponse struct {
	ActivityLog map[string]int   `json:"activity_log"`
	Streak      analytics.Streak `json:"streak"`
}

func newForecastResponse(f models.Forecast) forecastResponse {
	resp := forecastResponse{Status: f.Status.String()}
	if f.Status == models.ForecastOnDate {
		resp.Date = f.Date.String()
	}
	return resp
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidSchedule):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (ac *ApiController) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(providers.TypeApp, "Request failed: %s", err)
		http.Error(w, "Internal Server Error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (ac *ApiController) respond(w http.ResponseWriter, status int, result any) {
	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

// cacheKey scopes an entry to the current store revision so mutations make it unreachable.
func (ac *ApiController) cacheKey(parts ...string) string {
	return strings.Join(parts, ":") + "@" + strconv.FormatUint(ac.service.Revision(), 10)
}

func (ac *ApiController) decode(w http.ResponseWriter, r *http.Request, payload any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *ApiController) today() models.Date {
	return models.DateOf(ac.clock.Now())
}

// dateParam reads an optional YYYY-MM-DD query parameter, defaulting to today.
func (ac *ApiController) dateParam(r *http.Request, name string) (models.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return ac.today(), nil
	}
	return models.ParseDate(raw)
}

func courseID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		return "", errors.New("missing id")
	}
	return id, nil
}

func (ac *ApiController) ListCourses(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, ac.cacheKey("courses"), func() (any, error) {
		return ac.service.ListCourses(), nil
	})
}

// AddCourse scans the folder and stores the result as a new course.
func (ac *ApiController) AddCourse(w http.ResponseWriter, r *http.Request) {
	var payload addCourseRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.Name) == "" || strings.TrimSpace(payload.Path) == "" {
		http.Error(w, "name and path are required", http.StatusBadRequest)
		return
	}

	videos, stats, err := ac.scanner.Scan(r.Context(), payload.Path)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	course, err := ac.service.AddCourse(payload.Name, payload.Path, videos, stats)
	if err != nil && course == nil {
		ac.writeError(w, err)
		return
	}
	ac.respond(w, http.StatusCreated, course)
}

func (ac *ApiController) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	course, err := ac.service.GetCourse(id)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.respond(w, http.StatusOK, course)
}

func (ac *ApiController) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := ac.service.DeleteCourse(id); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// wholeSeconds accepts only a JSON number and drops its fractional part.
func wholeSeconds(v any) (int64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: watched_seconds must be a number, got %T", models.ErrInvalidInput, v)
	}
	if math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, fmt.Errorf("%w: watched_seconds out of range", models.ErrInvalidInput)
	}
	return int64(f), nil
}

// ReportProgress takes one playback position sample. Fractional seconds are truncated.
func (ac *ApiController) ReportProgress(w http.ResponseWriter, r *http.Request) {
	var payload progressRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	watched, err := wholeSeconds(payload.WatchedSeconds)
	if err != nil || watched < 0 || payload.CourseID == "" || payload.RelPath == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := ac.service.ApplyProgress(payload.CourseID, payload.RelPath, watched, payload.IsAtEnd)
	if errors.Is(err, models.ErrNotFound) {
		ac.writeError(w, err)
		return
	}
	if err != nil {
		// applied in memory, only the save failed
		ac.logger.Warnf(providers.TypePost, "Progress kept in memory: %s", err)
	}
	ac.respond(w, http.StatusOK, progressResponse{Delta: result.Delta, Completed: result.Completed, Video: result.Video})
}

// SetSchedule replaces the weekly plan, the start date, or both.
func (ac *ApiController) SetSchedule(w http.ResponseWriter, r *http.Request) {
	var payload scheduleRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	if payload.CourseID == "" || (payload.Schedule == nil && payload.StartDate == "") {
		http.Error(w, "course_id and schedule or start_date are required", http.StatusBadRequest)
		return
	}

	var start models.Date
	if payload.StartDate != "" {
		raw := payload.StartDate
		if len(raw) > len(models.DateLayout) {
			raw = raw[:len(models.DateLayout)]
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			ac.writeError(w, err)
			return
		}
		start = d
	}

	var err error
	if payload.Schedule == nil {
		err = ac.service.SetStartDate(payload.CourseID, start)
	} else {
		if len(payload.Schedule) != models.DaysPerWeek {
			http.Error(w, "schedule needs exactly 7 values", http.StatusBadRequest)
			return
		}
		err = ac.service.SetWeeklySchedule(payload.CourseID, models.MustWeeklySchedule(payload.Schedule), start)
	}
	if err != nil {
		ac.writeError(w, err)
		return
	}

	course, err := ac.service.GetCourse(payload.CourseID)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.respond(w, http.StatusOK, course)
}

// GetSchedule returns the weekly plan, all zero when none was set.
func (ac *ApiController) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	schedule, err := ac.service.GetWeeklySchedule(id)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.respond(w, http.StatusOK, scheduleResponse{CourseID: id, Schedule: schedule})
}

func (ac *ApiController) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	asOf, err := ac.dateParam(r, "as_of")
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.serveFromCacheOrCompute(w, ac.cacheKey("balance", id, asOf.String()), func() (any, error) {
		course, err := ac.service.GetCourse(id)
		if err != nil {
			return nil, err
		}
		return balanceResponse{CourseID: id, AsOf: asOf, Balance: analytics.BalanceBreakdown(course, asOf)}, nil
	})
}

func (ac *ApiController) GetForecast(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	today, err := ac.dateParam(r, "today")
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.serveFromCacheOrCompute(w, ac.cacheKey("forecast", id, today.String()), func() (any, error) {
		course, err := ac.service.GetCourse(id)
		if err != nil {
			return nil, err
		}
		return newForecastResponse(analytics.ForecastFinishDate(course, today)), nil
	})
}

func (ac *ApiController) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	today, err := ac.dateParam(r, "today")
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.serveFromCacheOrCompute(w, ac.cacheKey("summary", id, today.String()), func() (any, error) {
		course, err := ac.service.GetCourse(id)
		if err != nil {
			return nil, err
		}
		summary := analytics.Summarize(course, today)
		return summaryResponse{Summary: summary, Forecast: newForecastResponse(summary.Forecast)}, nil
	})
}

func (ac *ApiController) GetActivity(w http.ResponseWriter, r *http.Request) {
	today := ac.today()
	ac.serveFromCacheOrCompute(w, ac.cacheKey("activity", today.String()), func() (any, error) {
		return activityResponse{
			ActivityLog: ac.service.ActivityLog(),
			Streak:      analytics.ComputeStreak(ac.service.ListCourses(), today),
		}, nil
	})
}
