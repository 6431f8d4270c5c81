package equipment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/GabeCabrera/crewkit-sub001/internal/inventory/equipmentlog"
	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"github.com/gin-gonic/gin"
)

type EquipmentHandler struct {
	Repository    *EquipmentRepository
	LogRepository *equipmentlog.EquipmentLogRepository
}

func NewEquipmentHandler(r *EquipmentRepository, lr *equipmentlog.EquipmentLogRepository) *EquipmentHandler {
	return &EquipmentHandler{
		Repository:    r,
		LogRepository: lr,
	}
}

func (h *EquipmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/equipment", security.Authorize(roles.Field), h.GetEquipmentList)
	router.GET("/equipment/:id", security.Authorize(roles.Field), h.GetEquipment)
	router.GET("/equipment/sku/:sku", security.Authorize(roles.Field), h.GetEquipmentBySKU)
	router.GET("/equipment/:id/logs", security.Authorize(roles.Field), h.GetEquipmentLogs)

	// The catalog is owned by the BoxHero sync; local writes are refused.
	router.POST("/equipment", h.RejectLocalMutation)
	router.PATCH("/equipment/:id", h.RejectLocalMutation)
	router.PUT("/equipment/:id", h.RejectLocalMutation)
	router.DELETE("/equipment/:id", h.RejectLocalMutation)
}

func (h *EquipmentHandler) GetEquipmentList(c *gin.Context) {
	page, limit := models.ParsePageParams(c.Query("page"), c.Query("limit"))
	includeArchived := c.Query("archived") == "true"

	equipment, totalCount, err := h.Repository.GetEquipmentList(includeArchived, page, limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list equipment", "details": err.Error()})
		return
	}

	if equipment == nil {
		equipment = []models.Equipment{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       equipment,
		"pagination": models.NewPagination(page, limit, totalCount),
	})
}

func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	eq, err := h.Repository.GetEquipment(id)
	if err != nil {
		var notFound *custom_error.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate equipment"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get equipment", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, eq)
}

func (h *EquipmentHandler) GetEquipmentBySKU(c *gin.Context) {
	sku := c.Param("sku")
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind SKU"})
		return
	}

	eq, err := h.Repository.GetEquipmentBySKU(sku)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate equipment with given SKU"})
		return
	}

	c.JSON(http.StatusOK, eq)
}

func (h *EquipmentHandler) GetEquipmentLogs(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	page, limit := models.ParsePageParams(c.Query("page"), c.Query("limit"))

	filter := equipmentlog.ListFilter{
		EquipmentID: &id,
		Type:        c.Query("type"),
		From:        c.Query("from"),
		To:          c.Query("to"),
	}

	logs, totalCount, err := h.LogRepository.GetLogs(filter, page, limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list equipment logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       logs,
		"pagination": models.NewPagination(page, limit, totalCount),
	})
}

func (h *EquipmentHandler) RejectLocalMutation(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error":   "Equipment is read-only",
		"details": "The catalog is sourced from BoxHero; run the inventory sync instead",
	})
}
