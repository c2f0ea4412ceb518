package api

import (
	"net/http"

	"github.com/apiaryworks/hivedash/api/middleware"
	"github.com/apiaryworks/hivedash/api/resources"
	"github.com/apiaryworks/hivedash/internal/hiveservice"
	"github.com/gorilla/mux"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.StaticTokenMiddleware
	resources *resources.Resources
}

func NewRouter(svc *hiveservice.HiveService, authConfig middleware.AuthConfig) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewStaticTokenMiddleware(authConfig),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.handleHealth).Methods(http.MethodGet)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	// Data management
	data := protected.PathPrefix("/data").Subrouter()
	data.HandleFunc("/info", r.resources.Data.GetDataInfo).Methods(http.MethodGet)
	data.HandleFunc("/refresh", r.resources.Data.RefreshData).Methods(http.MethodPost)
	data.HandleFunc("/check-updates", r.resources.Data.CheckUpdates).Methods(http.MethodGet)

	// Hives and readings
	protected.HandleFunc("/hives", r.resources.Hives.ListHives).Methods(http.MethodGet)
	protected.HandleFunc("/readings", r.resources.Data.GetReadings).Methods(http.MethodGet)

	// Analytics
	analytics := protected.PathPrefix("/analytics").Subrouter()
	analytics.HandleFunc("/kpis", r.resources.Analytics.GetKPIs).Methods(http.MethodGet)
	analytics.HandleFunc("/alerts", r.resources.Analytics.GetAlerts).Methods(http.MethodGet)
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	if r.resources.HealthCheck != nil {
		r.resources.HealthCheck(w, req)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
