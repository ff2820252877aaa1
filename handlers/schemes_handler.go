package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const schemeSearchTimeout = 30 * time.Second

// SchemesHandler exposes the scheme corpus search directly, for clients that
// want reference text without a chat completion around it.
type SchemesHandler struct {
	Schemes SchemeSearcher
}

// HandleSchemeSearch serves GET /api/schemes/search?query=&k=. Results come
// back as the same "---"-joined snippet block the chat orchestrator injects
// into prompts; search failures degrade to an empty block.
func (h *SchemesHandler) HandleSchemeSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		http.Error(w, "Missing query parameter", http.StatusBadRequest)
		return
	}

	topK := 3
	if raw := r.URL.Query().Get("k"); raw != "" {
		if k, err := strconv.Atoi(raw); err == nil && k > 0 {
			topK = k
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), schemeSearchTimeout)
	defer cancel()

	results := ""
	if h.Schemes != nil {
		var err error
		results, err = h.Schemes.Search(ctx, query, topK)
		if err != nil {
			zap.L().Warn("Scheme search failed", zap.Error(err))
			results = ""
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"query":   query,
		"results": results,
	})
}
