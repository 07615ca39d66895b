package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	RestoreBackup(name string) error
	Persist() error
	Close()
}
