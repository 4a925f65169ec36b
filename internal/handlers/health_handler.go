package handlers

import (
	"buho-backend/internal/models"
	"buho-backend/pkg/httputil"
	"net/http"
)

// HealthChecker reports whether the completion provider credential is
// configured.
type HealthChecker interface {
	Configured() bool
}

// HealthHandler exposes server and provider status.
type HealthHandler struct {
	llm HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(llm HealthChecker) *HealthHandler {
	return &HealthHandler{llm: llm}
}

// HandleHealth reports service status and provider-credential presence.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.HealthResponse{
		Status:        "ok",
		LLMConfigured: h.llm.Configured(),
	})
}
