package storage

import (
	"coursetrack/internal/models"
	"coursetrack/internal/providers"
	"coursetrack/internal/storage/interfaces"
	"coursetrack/internal/structures"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

const (
	backupPrefix     = "courses-"
	backupSuffix     = ".json.zst"
	backupTimeLayout = "20060102T150405.000"
)

// BackupManager writes compressed snapshots of the course document and keeps
// only the newest ones.
type BackupManager struct {
	mu         sync.Mutex
	dir        string
	keep       int
	compressor interfaces.CompressorInterface
	clock      providers.Clock
	logger     providers.Logger
	closeOnce  sync.Once
}

func NewBackupManager(conf *structures.Config, compressor interfaces.CompressorInterface, clock providers.Clock, logger providers.Logger) *BackupManager {
	return &BackupManager{
		dir:        conf.Backup.Dir,
		keep:       conf.Backup.Keep,
		compressor: compressor,
		clock:      clock,
		logger:     logger,
	}
}

func (b *BackupManager) Enabled() bool {
	return b.dir != ""
}

// Write stores doc as a new snapshot and prunes old ones. It returns the
// snapshot's file name.
func (b *BackupManager) Write(doc *models.Document) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	compressed, err := b.compressor.Compress(jsonData)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", err
	}

	name := backupPrefix + b.clock.Now().UTC().Format(backupTimeLayout) + backupSuffix
	path := filepath.Join(b.dir, name)
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, compressed, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return "", err
	}

	b.prune()
	return name, nil
}

// List returns snapshot names, oldest first.
func (b *BackupManager) List() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(b.dir, backupPrefix+"*"+backupSuffix))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	// the timestamp layout sorts lexically
	sort.Strings(names)
	return names, nil
}

// Read decodes the named snapshot.
func (b *BackupManager) Read(name string) (*models.Document, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: backup name %q", models.ErrInvalidInput, name)
	}

	path := filepath.Join(b.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup %s: %w", name, models.ErrNotFound)
		}
		return nil, err
	}

	decompressed, err := b.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrMalformedStorage, path, err)
	}

	var doc models.Document
	if err := json.Unmarshal(decompressed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrMalformedStorage, path, err)
	}
	doc.Normalize()
	return &doc, nil
}

// prune must be called with mu held.
func (b *BackupManager) prune() {
	if b.keep <= 0 {
		return
	}
	names, err := b.List()
	if err != nil {
		b.logger.Errorf(providers.TypeStore, "Failed to list backups in %s: %s", b.dir, err)
		return
	}
	for len(names) > b.keep {
		path := filepath.Join(b.dir, names[0])
		if err := os.Remove(path); err != nil {
			b.logger.Errorf(providers.TypeStore, "Failed to remove backup %s: %s", path, err)
		}
		names = names[1:]
	}
}

// Close releases resources held by the compressor.
func (b *BackupManager) Close() {
	b.closeOnce.Do(b.compressor.Close)
}
