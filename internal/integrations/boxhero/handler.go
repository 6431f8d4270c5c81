package boxhero

import (
	"net/http"

	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	Service *SyncService
}

func NewSyncHandler(s *SyncService) *SyncHandler {
	return &SyncHandler{Service: s}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/integrations/boxhero/sync", security.Authorize(roles.Admin), h.TriggerSync)
}

func (h *SyncHandler) TriggerSync(c *gin.Context) {
	userID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.Service.Sync(&userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Catalog sync failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
