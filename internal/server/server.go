// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/apiaryworks/hivedash/api"
	"github.com/apiaryworks/hivedash/api/middleware"
	"github.com/apiaryworks/hivedash/internal/analytics"
	"github.com/apiaryworks/hivedash/internal/config"
	"github.com/apiaryworks/hivedash/internal/github"
	"github.com/apiaryworks/hivedash/internal/hiveservice"
	"github.com/apiaryworks/hivedash/internal/loader"
	"github.com/apiaryworks/hivedash/internal/monitoring"
	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config      *config.Config
	srv         *http.Server
	hiveservice *hiveservice.HiveService
	monitoring  *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
	}
}

// Start initializes the services, pre-warms the cache, and begins
// listening for requests. A failing first load is fatal; there is
// nothing to fall back to yet.
func (s *Server) Start() error {
	s.hiveservice = initializeHiveService(s.config)
	s.monitoring = monitoring.NewService(monitoring.Config{
		LogLevel: s.config.Monitoring.LogLevel,
	})

	s.setupUpdateHandlers()

	// Pre-warm the cache so first-load errors surface at startup
	// instead of on the first request.
	ctx, cancel := context.WithTimeout(context.Background(), 3*s.config.GitHub.RequestTimeout)
	defer cancel()
	dataset, configs, err := s.hiveservice.LoadData(ctx)
	if err != nil {
		return fmt.Errorf("initial data load failed: %w", err)
	}
	nuts.L.Infof("[Server] Pre-warmed cache with %d readings for %d hives", len(dataset), len(configs))

	s.hiveservice.Loader.StartMonitoring()

	router := api.NewRouter(s.hiveservice, middleware.AuthConfig{
		Token: s.config.Server.APIToken,
	})

	handler := handlers.RecoveryHandler()(
		handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		)(router))

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	s.hiveservice.Loader.StopMonitoring()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// setupUpdateHandlers wires upstream data events into monitoring
func (s *Server) setupUpdateHandlers() {
	s.hiveservice.Loader.OnUpdate(func(artifact string) {
		nuts.L.Infof("[Server] Upstream artifact %s updated", artifact)
		s.monitoring.RecordEvent("artifact_update", map[string]string{
			"artifact": artifact,
		})
	})
}

// initializeHiveService creates and configures the hive service
func initializeHiveService(cfg *config.Config) *hiveservice.HiveService {
	client := github.NewClient(cfg.GitHub)

	dataLoader := loader.New(client, loader.Options{
		DataArtifact:   cfg.GitHub.DataFile,
		ConfigArtifact: cfg.GitHub.ConfigFile,
		PollInterval:   cfg.GitHub.PollInterval,
	})

	svc := hiveservice.New(dataLoader, analytics.New(cfg.Analytics))
	if err := svc.Validate(); err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize hive service: %v", err)
	}
	return svc
}
