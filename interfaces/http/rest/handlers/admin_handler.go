package handlers

import (
	"net/http"

	"clinect-backend/application/services"
	"clinect-backend/pkg/common"

	"go.uber.org/zap"
)

// AdminHandler handles operational HTTP requests against the stores.
type AdminHandler struct {
	admin  *services.AdminService
	logger *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *services.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: logger,
	}
}

// ClearCache handles POST /api/admin/cache/clear. The graph query parameter
// extends the clear to the graph as well.
func (h *AdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	clearGraph := r.URL.Query().Get("graph") == "true"

	deleted, graphCleared, err := h.admin.ClearCache(r.Context(), clearGraph)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data: map[string]any{
			"deleted":      deleted,
			"graphCleared": graphCleared,
		},
	})
}

// ClearExpired handles POST /api/admin/cache/clear-expired
func (h *AdminHandler) ClearExpired(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.admin.ClearExpired(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data: map[string]any{
			"deleted": deleted,
		},
	})
}

// ClearGraph handles POST /api/admin/graph/clear
func (h *AdminHandler) ClearGraph(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.ClearGraph(r.Context()); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data: map[string]string{
			"message": "graph cleared",
		},
	})
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data:    stats,
	})
}
