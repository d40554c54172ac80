package handlers

import (
	"context"
	"net/http"
	"route-dashboard/internal/api/dto"
	"time"
)

// Pinger reports whether the route backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Backend   Pinger
	Dashboard Dashboard
}

// Health reports liveness plus backend reachability; it answers 200 either way
// because the dashboard itself keeps serving stale data when the backend is down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := dto.HealthResponse{Status: "ok", Backend: "reachable", Busy: h.Dashboard.Busy()}
	if h.Backend != nil {
		if err := h.Backend.Ping(ctx); err != nil {
			res.Backend = "unreachable"
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
