package storage

import (
	"coursetrack/internal/providers"
	"coursetrack/internal/services"
	"coursetrack/internal/storage/interfaces"
	"coursetrack/internal/structures"
	"sync"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.CourseServiceInterface
	backups *BackupManager
	metrics providers.MetricsProviderInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
	written atomic.Int64
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	interval := s.config.Backup.Interval
	if s.backups.Enabled() && interval > 0 {
		s.cron.AddFunc(gron.Every(interval), func() {
			_, _ = s.Backup()
		})
		s.logger.Infof(providers.TypeApp, "Backups every %s to %s", interval, s.config.Backup.Dir)
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads the course file into the service. Load problems are logged by
// the service and leave an empty collection.
func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.service.Load()
	return nil
}

// RestoreBackup replaces the store contents with the named snapshot and saves.
func (s *Scheduler) RestoreBackup(name string) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	doc, err := s.backups.Read(name)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while reading backup %s: %s", name, err)
		return err
	}
	if err := s.service.Replace(doc); err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Restored %d courses from backup %s", len(doc.Courses), name)
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting courses to file...")
	err := s.service.Save()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

// Backup writes one snapshot of the current document.
func (s *Scheduler) Backup() (string, error) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	name, err := s.backups.Write(s.service.Snapshot())
	s.metrics.IncBackups(err == nil)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while writing backup: %s", err)
		return "", err
	}
	s.written.Inc()
	s.logger.Infof(providers.TypeApp, "Wrote backup %s", name)
	return name, nil
}

// Close releases the backup compressor. Call it after Stop and Persist.
func (s *Scheduler) Close() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	s.backups.Close()
}

// BackupsWritten counts snapshots written since start.
func (s *Scheduler) BackupsWritten() int64 {
	return s.written.Load()
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.CourseServiceInterface, backups *BackupManager, metrics providers.MetricsProviderInterface) *Scheduler {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
		backups: backups,
		metrics: metrics,
	}
}

// NewSchedulerInterface binds the concrete scheduler to its interface for injection.
func NewSchedulerInterface(s *Scheduler) interfaces.SchedulerInterface {
	return s
}
