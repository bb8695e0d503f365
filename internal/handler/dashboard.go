package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler interface {
	Stats(c *gin.Context)
}

type dashboardHandler struct {
	taskService service.TaskService
	logger      *zap.Logger
}

func NewDashboardHandler(taskService service.TaskService, logger *zap.Logger) DashboardHandler {
	return &dashboardHandler{taskService: taskService, logger: logger}
}

// Stats handles GET /api/dashboard-stats
func (h *dashboardHandler) Stats(c *gin.Context) {
	userID := middleware.UserID(c)

	stats, err := h.taskService.DashboardStats(userID)
	if err != nil {
		h.logger.Error("Failed to build dashboard stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
