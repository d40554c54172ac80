package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"route-dashboard/internal/dashboard"
	"route-dashboard/internal/domain"
)

// Dashboard is what the HTTP layer needs from the composition unit.
type Dashboard interface {
	Latest() dashboard.Frame
	Subscribe() (<-chan dashboard.Frame, func())
	Trigger(mode domain.Mode) bool
	Busy() bool
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
