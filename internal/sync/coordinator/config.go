package coordinator

import (
	"time"

	"github.com/campusweb/content-server/internal/config"
)

const (
	// minLoopInterval bounds how often a resource loop may tick
	minLoopInterval = time.Second

	// defaultInitialSyncConcurrency caps the number of resources fetched at once on startup
	defaultInitialSyncConcurrency = 4
)

// loopInterval returns the ticker period for a resource's sync loop
func loopInterval(cfg *config.Config, res *config.ResourceConfig) time.Duration {
	interval := cfg.GetSyncInterval(res)
	if interval < minLoopInterval {
		return minLoopInterval
	}
	return interval
}
