package boxhero

import (
	"os"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartScheduler runs the catalog sync on the cron expression from
// BOXHERO_SYNC_CRON. Scheduling is off when the variable is empty.
// Scheduled runs carry no user attribution.
func StartScheduler(service *SyncService, logger *zap.Logger) (*cron.Cron, error) {
	spec := os.Getenv("BOXHERO_SYNC_CRON")
	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := service.Sync(nil); err != nil {
			logger.Error("scheduled catalog sync failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Info("catalog sync scheduled", zap.String("cron", spec))

	return c, nil
}
