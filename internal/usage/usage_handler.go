package usage

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"github.com/gin-gonic/gin"
)

type UsageHandler struct {
	Service *UsageService
}

func NewUsageHandler(s *UsageService) *UsageHandler {
	return &UsageHandler{Service: s}
}

func (h *UsageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/usage-logs", security.Authorize(roles.Field), h.RecordUsage)
	router.GET("/usage-logs", security.Authorize(roles.Field), h.GetUsageLogs)
	router.DELETE("/usage-logs/:id", security.Authorize(roles.Field), h.DeleteUsage)
}

func (h *UsageHandler) RecordUsage(c *gin.Context) {
	var req RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	userID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	usageLog, err := h.Service.RecordUsage(req, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, usageLog)
}

func (h *UsageHandler) GetUsageLogs(c *gin.Context) {
	page, limit := models.ParsePageParams(c.Query("page"), c.Query("limit"))

	filter := ListFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if raw := c.Query("assembly_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assembly_id filter"})
			return
		}
		filter.AssemblyID = &id
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id filter"})
			return
		}
		filter.UserID = &id
	}

	// Field workers only ever see their own ledger.
	if security.CurrentRole(c) == roles.Field {
		userID, err := security.CurrentUserID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		filter.UserID = &userID
	}

	logs, totalCount, err := h.Service.GetUsageLogs(filter, page, limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list usage logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       logs,
		"pagination": models.NewPagination(page, limit, totalCount),
	})
}

func (h *UsageHandler) DeleteUsage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid usage log ID"})
		return
	}

	userID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.Service.DeleteUsage(id, userID, security.CurrentRole(c)); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Usage log deleted, inventory restored"})
}

func (h *UsageHandler) respondError(c *gin.Context, err error) {
	var notFound *custom_error.NotFoundError
	var insufficient *custom_error.InsufficientInventoryError
	var validation *ValidationError
	var forbidden *ForbiddenError

	switch {
	case errors.As(err, &notFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &insufficient):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":          "Insufficient inventory",
			"details":        err.Error(),
			"equipment_id":   insufficient.EquipmentID,
			"equipment_name": insufficient.EquipmentName,
		})
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &forbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Usage operation failed", "details": err.Error()})
	}
}
