package http

import (
	"net/http"
	"time"

	"github.com/aizuanjeme/coffeShop/internal/menu/store"
	"github.com/aizuanjeme/coffeShop/pkg/httpx"
	"github.com/aizuanjeme/coffeShop/pkg/menusdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning status, uptime and version. Always 200 while the process serves.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	menusdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get]
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, menusdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe. Degraded until the database answers and the identity provider's keys are loaded.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	menusdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	menusdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get]
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys KeyState,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &menusdk.HealthChecks{
			Database: "ok",
			KeySet:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.KeySet = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, menusdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
