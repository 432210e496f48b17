package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/service"
	"carshine/pkg/logger"
)

const (
	defaultChartMonths = 6
	defaultChartDays   = 30
	defaultRecentLimit = 10
)

type DashboardHandler struct {
	dashboardService service.DashboardServiceInterface
}

func NewDashboardHandler(dashboardService service.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats serves the month-over-month KPI block.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context(), time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("failed to compute dashboard stats")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get dashboard stats")
		return
	}

	respondData(c, http.StatusOK, stats)
}

// GetRevenueChart serves the revenue series. ?period=daily switches to
// day buckets; anything else means monthly. ?range caps the number of
// buckets.
func (h *DashboardHandler) GetRevenueChart(c *gin.Context) {
	period := c.DefaultQuery("period", "monthly")

	var (
		buckets []entity.RevenueBucket
		err     error
	)
	if period == "daily" {
		buckets, err = h.dashboardService.GetDailyRevenueChart(
			c.Request.Context(), time.Now(), queryInt(c, "range", defaultChartDays))
	} else {
		buckets, err = h.dashboardService.GetMonthlyRevenueChart(
			c.Request.Context(), time.Now(), queryInt(c, "range", defaultChartMonths))
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to compute revenue chart")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get revenue chart")
		return
	}

	respondData(c, http.StatusOK, buckets)
}

func (h *DashboardHandler) GetRecentOrders(c *gin.Context) {
	orders, err := h.dashboardService.GetRecentOrders(c.Request.Context(), queryInt(c, "limit", defaultRecentLimit))
	if err != nil {
		logger.Error().Err(err).Msg("failed to list recent orders")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get recent orders")
		return
	}

	respondData(c, http.StatusOK, orders)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
