package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	Service *MetricsService
}

func NewMetricsHandler(s *MetricsService) *MetricsHandler {
	return &MetricsHandler{Service: s}
}

func (h *MetricsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/metrics", h.GetSummary)
}

func (h *MetricsHandler) GetSummary(c *gin.Context) {
	summary, err := h.Service.GetSummary(c.DefaultQuery("period", PeriodAll))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
