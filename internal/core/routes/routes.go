package routes

import (
	"os"

	"github.com/GabeCabrera/crewkit-sub001/internal/core/container"
	"github.com/GabeCabrera/crewkit-sub001/internal/middleware"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterPublicRoutes wires the endpoints that work without a token.
func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)
}

// RegisterProtectedRoutes wires everything behind the JWT middleware.
func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protected := router.Group("")
	protected.Use(security.JWTMiddleware())

	c.EquipmentHandler.RegisterRoutes(protected)
	c.EquipmentLogHandler.RegisterRoutes(protected)
	c.AssemblyHandler.RegisterRoutes(protected)
	c.UsageHandler.RegisterRoutes(protected)
	c.TeamHandler.RegisterRoutes(protected)
	c.UserHandler.RegisterRoutes(protected)
	c.ReportHandler.RegisterRoutes(protected)
	c.MetricsHandler.RegisterRoutes(protected)
	c.SettingsHandler.RegisterRoutes(protected)
	c.SyncHandler.RegisterRoutes(protected)
}

func RegisterUtilityRoutes(router *gin.Engine, log *zap.Logger) {
	router.GET("/health", middleware.HealthCheckMiddleware())

	openapiFilePath := "./docs/index.html"
	if _, err := os.Stat(openapiFilePath); err == nil {
		router.GET("/openapi.html", func(c *gin.Context) {
			c.File(openapiFilePath)
		})
		log.Info("openapi docs route registered")
	}
}
