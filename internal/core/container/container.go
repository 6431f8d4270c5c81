package container

import (
	"database/sql"

	"github.com/GabeCabrera/crewkit-sub001/internal/assemblies"
	"github.com/GabeCabrera/crewkit-sub001/internal/integrations/boxhero"
	"github.com/GabeCabrera/crewkit-sub001/internal/inventory/equipment"
	"github.com/GabeCabrera/crewkit-sub001/internal/inventory/equipmentlog"
	"github.com/GabeCabrera/crewkit-sub001/internal/inventory/stock"
	"github.com/GabeCabrera/crewkit-sub001/internal/metrics"
	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	"github.com/GabeCabrera/crewkit-sub001/internal/reports"
	"github.com/GabeCabrera/crewkit-sub001/internal/settings"
	"github.com/GabeCabrera/crewkit-sub001/internal/teams"
	"github.com/GabeCabrera/crewkit-sub001/internal/usage"
	"github.com/GabeCabrera/crewkit-sub001/internal/users"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository          *repository.Repository
	Logger              *zap.Logger
	LoginHandler        *security.LoginHandler
	EquipmentHandler    *equipment.EquipmentHandler
	EquipmentLogHandler *equipmentlog.EquipmentLogHandler
	AssemblyHandler     *assemblies.AssemblyHandler
	UsageHandler        *usage.UsageHandler
	TeamHandler         *teams.TeamHandler
	UserHandler         *users.UsersHandler
	ReportHandler       *reports.ReportHandler
	MetricsHandler      *metrics.MetricsHandler
	SettingsHandler     *settings.SettingsHandler
	SyncHandler         *boxhero.SyncHandler
	SyncService         *boxhero.SyncService
}

func NewAppContainer(db *sql.DB, logger *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	equipmentRepo := equipment.NewRepository(repo)
	stockRepo := stock.NewRepository(repo)
	equipmentLogRepo := equipmentlog.NewRepository(repo)

	assemblyRepo := assemblies.NewRepository(repo)
	assemblyService := assemblies.NewAssemblyService(assemblyRepo)

	usageRepo := usage.NewRepository(repo)
	usageService := usage.NewUsageService(repo, usageRepo, assemblyRepo, equipmentRepo, stockRepo, equipmentLogRepo)

	teamRepo := teams.NewTeamRepository(repo)
	userRepo := users.NewRepository(repo)

	reportRepo := reports.NewRepository(repo)
	reportService := reports.NewReportService(reportRepo, assemblyRepo, equipmentRepo)

	metricsRepo := metrics.NewRepository(repo)
	metricsService := metrics.NewMetricsService(metricsRepo)

	settingsRepo := settings.NewRepository(repo)

	boxheroClient := boxhero.NewClient()
	syncService := boxhero.NewSyncService(repo, boxheroClient, equipmentRepo, stockRepo, equipmentLogRepo, logger)

	return &Container{
		Repository:          repo,
		Logger:              logger,
		LoginHandler:        security.NewLoginHandler(repo),
		EquipmentHandler:    equipment.NewEquipmentHandler(equipmentRepo, equipmentLogRepo),
		EquipmentLogHandler: equipmentlog.NewEquipmentLogHandler(equipmentLogRepo),
		AssemblyHandler:     assemblies.NewAssemblyHandler(assemblyRepo, assemblyService, equipmentRepo),
		UsageHandler:        usage.NewUsageHandler(usageService),
		TeamHandler:         teams.NewTeamHandler(teamRepo),
		UserHandler:         users.NewHandler(userRepo),
		ReportHandler:       reports.NewReportHandler(reportService),
		MetricsHandler:      metrics.NewMetricsHandler(metricsService),
		SettingsHandler:     settings.NewSettingsHandler(settingsRepo),
		SyncHandler:         boxhero.NewSyncHandler(syncService),
		SyncService:         syncService,
	}
}
