package handlers

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"route-dashboard/internal/api/dto"
	"route-dashboard/internal/render/panel"
)

// DashboardHandler serves the rendered dashboard and its read-only views.
type DashboardHandler struct {
	Dashboard Dashboard
}

// Page renders the full HTML document for the latest frame.
// The page starts with an empty map, so its scene always fits the locations.
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	f := h.Dashboard.Latest()

	scene, err := json.Marshal(f.Scene.Initial())
	if err != nil {
		log.Printf("encode scene failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := panel.RenderPage(w, panel.Page{Seq: f.Seq, Panel: f.Panel, Scene: template.JS(scene)}); err != nil {
		log.Printf("render page failed: %v", err)
	}
}

func (h *DashboardHandler) State(w http.ResponseWriter, r *http.Request) {
	f := h.Dashboard.Latest()
	writeJSON(w, r, http.StatusOK, dto.StateResponse{Version: f.Version, State: f.State})
}

func (h *DashboardHandler) Panel(w http.ResponseWriter, r *http.Request) {
	f := h.Dashboard.Latest()
	writeJSON(w, r, http.StatusOK, dto.PanelResponse{Version: f.Version, Panel: f.Panel})
}

// Map returns the map scene: tile layer, viewport and a GeoJSON FeatureCollection.
func (h *DashboardHandler) Map(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Dashboard.Latest().Scene)
}
