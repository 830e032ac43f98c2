package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meritmind/internal/service"
)

// DashboardHandler mantiene dependencias para la vista agregada.
type DashboardHandler struct {
	logger     *zap.Logger
	dashboards *service.DashboardService
}

func NewDashboardHandler(logger *zap.Logger, dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		logger:     logger,
		dashboards: dashboards,
	}
}

// GetDashboard maneja GET /dashboard/:userId.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	data, err := h.dashboards.Build(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("build dashboard failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to fetch dashboard data")
		return
	}
	respondData(c, http.StatusOK, data)
}
