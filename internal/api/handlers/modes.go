package handlers

import (
	"log"
	"net/http"
	"route-dashboard/internal/api/dto"
	"route-dashboard/internal/domain"

	"github.com/go-chi/chi/v5"
)

type ModeHandler struct {
	Dashboard Dashboard
}

// Trigger handles POST /api/mode/{mode}: "Show Normal Route" and "Simulate Traffic Jam".
// The fetch runs in the background; progress is visible through the state and the websocket.
func (h *ModeHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "mode must be one of normal, traffic")
		return
	}

	if !h.Dashboard.Trigger(mode) {
		writeError(w, r, http.StatusConflict, "a route fetch is already in progress")
		return
	}

	log.Printf("mode triggered: mode=%s", mode)
	writeJSON(w, r, http.StatusAccepted, dto.TriggerResponse{Mode: mode, Status: "accepted"})
}
