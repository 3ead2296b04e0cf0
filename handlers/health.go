// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports service status and which remote API and view store are configured

package handlers

import (
	"net/http"
	"time"

	"github.com/storeops/catalog-console/config"
)

// Health returns service status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"api_base":       "not_configured",
		"view_store":     config.ViewStoreMemory,
	}

	if h.cfg != nil {
		if h.cfg.APIBase != "" {
			resp["api_base"] = h.cfg.APIBase
		}
		if h.cfg.ViewStore != "" {
			resp["view_store"] = h.cfg.ViewStore
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}
