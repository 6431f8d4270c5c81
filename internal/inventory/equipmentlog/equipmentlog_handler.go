package equipmentlog

import (
	"net/http"
	"strconv"

	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"github.com/gin-gonic/gin"
)

type EquipmentLogHandler struct {
	Repository *EquipmentLogRepository
}

func NewEquipmentLogHandler(r *EquipmentLogRepository) *EquipmentLogHandler {
	return &EquipmentLogHandler{Repository: r}
}

func (h *EquipmentLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/equipment-logs", security.Authorize(roles.Manager), h.GetLogs)
}

func (h *EquipmentLogHandler) GetLogs(c *gin.Context) {
	page, limit := models.ParsePageParams(c.Query("page"), c.Query("limit"))

	filter := ListFilter{
		Type: c.Query("type"),
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if raw := c.Query("equipment_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment_id filter"})
			return
		}
		filter.EquipmentID = &id
	}

	logs, totalCount, err := h.Repository.GetLogs(filter, page, limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list equipment logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       logs,
		"pagination": models.NewPagination(page, limit, totalCount),
	})
}
