package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"kitchenlog/internal/config"
	"kitchenlog/internal/handlers"
	"kitchenlog/internal/logger"
	"kitchenlog/internal/metrics"
	"kitchenlog/internal/repository"
	"kitchenlog/internal/server"
	"kitchenlog/internal/service"

	"github.com/juju/clock"
)

func main() {
	// load configs/config.yml, .env and KITCHENLOG_* overrides
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	// context for background goroutines (store connect)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// open the durable log; document stores become ready asynchronously
	repos, err := repository.NewRepository(ctx, cfg.Store, clock.WallClock, log.Named("store"))
	if err != nil {
		log.Fatalw("failed to init store", "backend", cfg.Store.Backend, "err", err)
	}
	defer func() {
		if cerr := repos.CookLog.Close(); cerr != nil {
			log.Errorw("failed to close store", "err", cerr)
		}
	}()

	// wire dependencies
	m := metrics.New()
	services := service.NewService(repos, serviceOptions(cfg, m, log))
	defer services.Close()
	apiHandler := handlers.NewHandler(services, m, log.Named("http"))

	// start HTTP server
	srv := server.New(cfg.Server)
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func serviceOptions(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) service.Options {
	opts := service.Options{
		Clock:     clock.WallClock,
		Roster:    cfg.Staff,
		Metrics:   m,
		ReportURL: cfg.Report.BaseURL,
		Logger:    log.Named("service"),
	}
	if cfg.Report.RendererURL != "" {
		opts.Renderer = service.NewHTTPRenderer(cfg.Report.RendererURL, cfg.Report.Timeout)
	} else {
		log.Infow("report.renderer_url not set; PDF export disabled")
	}
	return opts
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		log.Infow("http_listen", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), srv.ShutdownTimeout())
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
