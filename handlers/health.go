package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sampark-ai/sampark-backend/utils"
)

// HealthHandler reports liveness plus the active screen-session count.
type HealthHandler struct {
	Registry *SessionRegistry
	Config   utils.Config
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":                 "healthy",
		"provider":               h.Config.AIProvider,
		"rag_enabled":            h.Config.EnableRAG,
		"screen_guide_enabled":   h.Config.EnableScreenGuide,
		"active_screen_sessions": h.Registry.Count(),
	})
}
