package http

import (
	"net/http"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/shiftwise/stepup/pkg/httpx"
	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks database connectivity; returns 503 while a dependency is down.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	stepupsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	stepupsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &stepupsdk.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, stepupsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
