package internal

import (
	"context"
	"coursetrack/internal/controllers"
	"coursetrack/internal/providers"
	"coursetrack/internal/storage/interfaces"
	"coursetrack/internal/structures"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
}

// NewHandler assembles the HTTP surface: instrumented API routes plus health and metrics.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface, courseGauge *providers.CourseGauge) http.Handler {
	if courseGauge.Registered() {
		logger.Debugf(providers.TypeApp, "Course gauge registered")
	}

	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, apiMux)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)
	return mux
}

func NewApp(handler http.Handler, scheduler interfaces.SchedulerInterface, conf *structures.Config, flags *structures.CliFlags, logger providers.Logger) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if err := scheduler.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	if flags.RestoreBackup != "" {
		if err := scheduler.RestoreBackup(flags.RestoreBackup); err != nil {
			return nil, fmt.Errorf("restore backup %s: %w", flags.RestoreBackup, err)
		}
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Minute, // POST /courses probes every file
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		scheduler.Stop()
		scheduler.Close()
		logger.Close()
		return nil, fmt.Errorf("server error: %w", err)
	}

	if err := shutdown(app.WebServer, scheduler, logger); err != nil {
		return nil, err
	}
	return app, nil
}

// shutdown stops the jobs and the server, writes pending changes and releases
// the backup compressor and the log files.
func shutdown(server *http.Server, scheduler interfaces.SchedulerInterface, logger providers.Logger) error {
	defer logger.Close()
	defer scheduler.Close()

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	if err := scheduler.Persist(); err != nil {
		return err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
