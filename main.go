package main

import (
	"context"
	"os"

	"github.com/GabeCabrera/crewkit-sub001/cmd"
	"github.com/GabeCabrera/crewkit-sub001/internal/core/container"
	"github.com/GabeCabrera/crewkit-sub001/internal/core/logger"
	"github.com/GabeCabrera/crewkit-sub001/internal/core/routes"
	"github.com/GabeCabrera/crewkit-sub001/internal/database"
	"github.com/GabeCabrera/crewkit-sub001/internal/integrations/boxhero"
	"github.com/GabeCabrera/crewkit-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file, but don't overwrite system environment variables.
	_ = godotenv.Load()

	log := logger.NewLogger()
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd.Execute(ctx)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatal("failed to connect to the database", zap.Error(err))
	}
	defer db.Close()
	log.Info("connected to the database")

	c := container.NewAppContainer(db, log)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.RecoveryMiddleware(log))

	routes.RegisterUtilityRoutes(router, log)
	routes.RegisterPublicRoutes(router, c)
	routes.RegisterProtectedRoutes(router, c)

	scheduler, err := boxhero.StartScheduler(c.SyncService, log)
	if err != nil {
		log.Fatal("invalid BOXHERO_SYNC_CRON expression", zap.Error(err))
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
