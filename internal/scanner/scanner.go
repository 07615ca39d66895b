package scanner

import (
	"context"
	"coursetrack/internal/models"
	"coursetrack/internal/providers"
	"coursetrack/internal/structures"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

type ScannerInterface interface {
	Scan(ctx context.Context, root string) ([]models.VideoSpec, models.ScanStats, error)
}

// Scanner walks a course folder and lists every video file with its duration.
type Scanner struct {
	fs         afero.Fs
	prober     Prober
	logger     providers.Logger
	extensions map[string]struct{}
}

func NewScanner(conf *structures.Config, fs afero.Fs, prober Prober, logger providers.Logger) *Scanner {
	exts := conf.Scanner.Extensions
	if len(exts) == 0 {
		exts = providers.DefaultVideoExtensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return &Scanner{fs: fs, prober: prober, logger: logger, extensions: set}
}

func NewScannerInterface(s *Scanner) ScannerInterface {
	return s
}

// NewFilesystem is the host filesystem the daemon scans.
func NewFilesystem() afero.Fs {
	return afero.NewOsFs()
}

func (s *Scanner) IsVideo(name string) bool {
	_, ok := s.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Scan lists videos under root in walk order. Files whose duration cannot be
// probed are kept with a zero duration.
func (s *Scanner) Scan(ctx context.Context, root string) ([]models.VideoSpec, models.ScanStats, error) {
	var stats models.ScanStats

	info, err := s.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, stats, fmt.Errorf("%w: folder %s does not exist", models.ErrInvalidInput, root)
		}
		return nil, stats, err
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("%w: %s is not a folder", models.ErrInvalidInput, root)
	}

	videos := make([]models.VideoSpec, 0)
	err = afero.Walk(s.fs, root, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			s.logger.Warnf(providers.TypeApp, "Skipping %s: %s", path, walkErr)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if fi.IsDir() || !s.IsVideo(fi.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		duration, err := s.prober.Probe(ctx, path)
		if err != nil {
			s.logger.Warnf(providers.TypeApp, "Could not read duration of %s: %s", path, err)
			duration = 0
		}

		videos = append(videos, models.VideoSpec{RelPath: rel, Duration: duration})
		stats.TotalDuration += duration
		return nil
	})
	if err != nil {
		return nil, models.ScanStats{}, err
	}

	stats.TotalVideos = len(videos)
	s.logger.Infof(providers.TypeApp, "Scanned %s: %d videos, %.0f seconds", root, stats.TotalVideos, stats.TotalDuration)
	return videos, stats, nil
}
