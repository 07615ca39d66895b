package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/pflag"
)

var (
	baseURL      string
	numWorkers   int
	testDuration time.Duration
	scanPath     string
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type video struct {
	RelPath  string  `json:"rel_path"`
	Duration float64 `json:"duration"`
}

type course struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Videos []video `json:"videos"`
}

// player is one simulated viewer: it keeps its own playback positions and
// reports them the way a video player ticks.
type player struct {
	rng       *rand.Rand
	courses   []course
	positions map[string]int64
}

func main() {
	pflag.StringVar(&baseURL, "url", "http://127.0.0.1:8090", "daemon base url")
	pflag.IntVar(&numWorkers, "workers", 20, "concurrent players")
	pflag.DurationVar(&testDuration, "duration", 10*time.Second, "length of each phase")
	pflag.StringVar(&scanPath, "scan", "", "folder to add as a course when the daemon has none")
	pflag.Parse()

	fmt.Println("=== CourseTrack Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			os.Exit(1)
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	courses, err := loadCourses()
	if err != nil {
		fmt.Printf("FAILED: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Courses: %d\n", len(courses))

	// Phase 1: playback only
	fmt.Println("\n--- Phase 1: Player ticks (POST /progress) ---")
	runPhase(testDuration, courses, func(p *player) result {
		return p.tick()
	})

	// Phase 2: dashboards refreshing while players tick
	fmt.Println("\n--- Phase 2: Mixed load (60% ticks, 40% dashboard) ---")
	runPhase(testDuration, courses, func(p *player) result {
		r := p.rng.Float64()
		switch {
		case r < 0.60:
			return p.tick()
		case r < 0.75:
			return p.get("/summary")
		case r < 0.85:
			return p.get("/balance")
		case r < 0.95:
			return p.get("/forecast")
		default:
			return doGet("GET /activity", "/activity")
		}
	})
}

func loadCourses() ([]course, error) {
	var courses []course
	if err := getJSON("/courses", &courses); err != nil {
		return nil, err
	}
	if len(courses) == 0 && scanPath != "" {
		body, _ := json.Marshal(map[string]string{"name": "loadtest", "path": scanPath})
		resp, err := httpClient.Post(baseURL+"/courses", "application/json", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if err := getJSON("/courses", &courses); err != nil {
			return nil, err
		}
	}

	playable := courses[:0]
	for _, c := range courses {
		if len(c.Videos) > 0 {
			playable = append(playable, c)
		}
	}
	if len(playable) == 0 {
		return nil, fmt.Errorf("no course with videos, pass --scan <folder>")
	}
	return playable, nil
}

func getJSON(path string, out any) error {
	resp, err := httpClient.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func runPhase(duration time.Duration, courses []course, workFn func(p *player) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			p := &player{
				rng:       rand.New(rand.NewSource(seed)),
				courses:   courses,
				positions: make(map[string]int64),
			}
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(p)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

// tick advances a random video by a few seconds, with the occasional rewind.
func (p *player) tick() result {
	c := p.courses[p.rng.Intn(len(p.courses))]
	v := c.Videos[p.rng.Intn(len(c.Videos))]
	key := c.ID + "/" + v.RelPath

	pos := p.positions[key]
	if p.rng.Float64() < 0.05 {
		pos -= int64(p.rng.Intn(60))
		if pos < 0 {
			pos = 0
		}
	} else {
		pos += int64(p.rng.Intn(25) + 5)
	}
	atEnd := v.Duration > 0 && float64(pos) >= v.Duration
	if atEnd {
		pos = int64(v.Duration)
	}
	p.positions[key] = pos

	body, _ := json.Marshal(map[string]any{
		"course_id":       c.ID,
		"rel_path":        v.RelPath,
		"watched_seconds": pos,
		"is_at_end":       atEnd,
	})
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/progress", "application/json", bytes.NewReader(body))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /progress", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /progress", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func (p *player) get(path string) result {
	c := p.courses[p.rng.Intn(len(p.courses))]
	return doGet("GET "+path, path+"?id="+c.ID)
}

func doGet(endpoint, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
