package handlers

import (
	"net/http"

	"github.com/bobmcallan/mcpforge/internal/codegen"
	"github.com/bobmcallan/mcpforge/internal/common"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status  string   `json:"status"`
	Targets []string `json:"targets"`
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var targets []string
	for _, t := range codegen.Targets() {
		targets = append(targets, t.Name())
	}
	WriteJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Targets: targets,
	})
}
