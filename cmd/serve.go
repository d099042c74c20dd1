package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"project-gallery/internal/filesystem"
	"project-gallery/internal/handlers"
	"project-gallery/internal/logging"
	"project-gallery/internal/media"
	"project-gallery/internal/memory"
	"project-gallery/internal/metrics"
	"project-gallery/internal/middleware"
	"project-gallery/internal/startup"
	"project-gallery/web"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gallery over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg, time.Now())
		},
	}

	flags := cmd.Flags()
	flags.String("bind", "0.0.0.0", "address to listen on")
	flags.String("port", "3030", "application port")
	flags.String("metrics-port", "9090", "Prometheus metrics port")
	flags.Int("thumbnail-size", 400, "edge of the square thumbnails fit into, in pixels")
	flags.Bool("no-metrics", false, "disable the metrics server")
	flags.Bool("no-thumbnails", false, "disable thumbnail generation")
	return cmd
}

// serve runs the application (and metrics) servers until ctx is done, then
// shuts them down gracefully.
func serve(ctx context.Context, cfg *startup.Config, startTime time.Time) error {
	startup.PrintBanner(os.Stdout)
	startup.LogSystemInfo()
	startup.LogConfig(cfg)

	memory.Configure(cfg.MemoryLimit, cfg.MemoryRatio)
	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()
	defer monitor.Stop()

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"media": cfg.MediaDir,
	}))
	filesystem.SetObserver(metrics.NewFilesystemObserver())
	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion, cfg.VideoEnabled)

	templates, err := web.ParseTemplates()
	if err != nil {
		return err
	}

	thumbGen := media.NewThumbnailGenerator(media.ThumbnailOptions{
		BaseDir: cfg.MediaDir,
		Size:    cfg.ThumbnailSize,
		Enabled: cfg.ThumbnailsEnabled,
		Memory:  monitor,
	})
	startup.LogThumbnailInit(thumbGen.IsEnabled(), thumbGen.Size(), thumbGen.Workers())

	h := handlers.New(cfg, thumbGen, templates)
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, cfg.LogStaticFiles, cfg.LogHealthChecks)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           wrapHandler(router, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Video responses can take arbitrarily long to stream.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if cfg.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr(),
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	errCh := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()
	if metricsSrv != nil {
		go func() {
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	startup.LogServerStarted(startup.ServerConfig{
		Bind:            cfg.Bind,
		Port:            cfg.Port,
		MetricsPort:     cfg.MetricsPort,
		MetricsEnabled:  cfg.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	var serveErr error
	select {
	case <-ctx.Done():
		startup.LogShutdownInitiated(context.Cause(ctx).Error())
	case serveErr = <-errCh:
		logging.Error("%v", serveErr)
		startup.LogShutdownInitiated("server failure")
	}

	handleShutdown(srv, metricsSrv)
	return serveErr
}

// wrapHandler applies the access log and compression around the router.
func wrapHandler(router *mux.Router, cfg *startup.Config) http.Handler {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = cfg.LogStaticFiles
	loggingConfig.LogHealthChecks = cfg.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	return middleware.Compression(middleware.DefaultCompressionConfig())(loggedHandler)
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	// Pages
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/project/{name:.+}", h.Project).Methods(http.MethodGet)

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/projects", h.ListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{name:.+}", h.GetProject).Methods(http.MethodGet)

	// Media
	r.HandleFunc("/thumbnail/{path:.+}", h.GetThumbnail).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix(handlers.MediaPrefix+"/").Handler(h.ServeMedia()).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix("/static/").Handler(handlers.ServeStatic("/static", web.Static())).Methods(http.MethodGet, http.MethodHead)

	return r
}

func handleShutdown(srv, metricsSrv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
}
