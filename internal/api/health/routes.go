// Package health provides the liveness, readiness and version endpoints
package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusweb/content-server/internal/api/common"
	"github.com/campusweb/content-server/internal/service"
	"github.com/campusweb/content-server/internal/versions"
)

// StatusResponse is the body of the health and readiness endpoints
type StatusResponse struct {
	Status string `json:"status"`
}

// Router creates a router for health check endpoints
func Router(svc service.ContentService) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles GET /health
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, StatusResponse{Status: "healthy"}, http.StatusOK)
}

// readinessHandler handles GET /readiness. The server is ready once every
// configured resource has been loaded at least once.
func readinessHandler(svc service.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			common.WriteErrorResponse(w, "content service not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, StatusResponse{Status: "ready"}, http.StatusOK)
	}
}

// versionHandler handles GET /version
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
