package settings

import (
	"net/http"

	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	Repository *SettingsRepository
}

func NewSettingsHandler(r *SettingsRepository) *SettingsHandler {
	return &SettingsHandler{Repository: r}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", security.Authorize(roles.Admin), h.PutSettings)
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.Repository.GetSettings()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load settings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) PutSettings(c *gin.Context) {
	var settings Settings
	if err := c.BindJSON(&settings); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if len(settings) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No settings given"})
		return
	}

	if err := h.Repository.PutSettings(settings); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not store settings", "details": err.Error()})
		return
	}

	updated, err := h.Repository.GetSettings()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load settings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}
