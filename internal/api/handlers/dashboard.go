package handlers

import (
	"net/http"

	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the role-specific counters.
type DashboardHandler struct {
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetDashboard godoc
// @Summary      Get the caller's dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200 {object}  dto.DashboardResponse
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /dashboard [get]
// @Security     BearerAuth
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	resp, err := h.service.GetDashboard(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "load dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}
