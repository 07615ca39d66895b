//go:build wireinject
// +build wireinject

package di

import (
	"coursetrack/internal"
	"coursetrack/internal/controllers"
	"coursetrack/internal/providers"
	"coursetrack/internal/scanner"
	"coursetrack/internal/services"
	"coursetrack/internal/storage"
	"coursetrack/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewClockProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewCourseGauge,
		wire.Bind(new(providers.CourseCounter), new(*services.CourseService)),

		storage.NewFileManager,
		storage.NewPersister,
		storage.NewZstdCompressor,
		storage.NewBackupManager,
		services.NewCourseService,
		services.NewCourseServiceInterface,
		storage.NewScheduler,
		storage.NewSchedulerInterface,

		scanner.NewFilesystem,
		scanner.NewFFProbe,
		scanner.NewProber,
		scanner.NewScanner,
		scanner.NewScannerInterface,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
