package scanner

import (
	"context"
	"coursetrack/internal/structures"
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cast"
)

// Prober reads the playback length of a media file in seconds.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// FFProbe shells out to ffprobe for the container duration.
type FFProbe struct {
	binary string
}

func NewFFProbe(conf *structures.Config) *FFProbe {
	binary := conf.Scanner.FFProbePath
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFProbe{binary: binary}
}

func NewProber(p *FFProbe) Prober {
	return p
}

func (p *FFProbe) Probe(ctx context.Context, path string) (float64, error) {
	out, err := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseDuration(string(out))
}

// parseDuration accepts ffprobe's plain output; "N/A" is reported for streams
// without a known length.
func parseDuration(out string) (float64, error) {
	out = strings.TrimSpace(out)
	if out == "" || out == "N/A" {
		return 0, nil
	}
	d, err := cast.ToFloat64E(out)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", out, err)
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}
