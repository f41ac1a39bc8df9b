package handler

import (
	"log/slog"
	"net/http"

	"github.com/Priyanshusingh0818/GORUS/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	auth      *service.AuthService
	analytics *service.AnalyticsService
	log       *slog.Logger
}

func NewAdminHandler(auth *service.AuthService, analytics *service.AnalyticsService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{auth: auth, analytics: analytics, log: log}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetDashboardStats aggregates everything on each call.
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	dashboard, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetSalesReport takes optional start_date and end_date (YYYY-MM-DD).
func (h *AdminHandler) GetSalesReport(c *gin.Context) {
	report, err := h.analytics.SalesReport(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
