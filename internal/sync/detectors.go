package sync

import (
	"context"
	"time"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/sources"
	"github.com/campusweb/content-server/internal/status"
)

// DefaultDataChangeDetector implements DataChangeDetector
type DefaultDataChangeDetector struct {
	sourceHandlerFactory sources.SourceHandlerFactory
}

// IsDataChanged checks if source data has changed by comparing hashes
func (d *DefaultDataChangeDetector) IsDataChanged(
	ctx context.Context, res *config.ResourceConfig, syncStatus *status.SyncStatus,
) (bool, error) {
	var lastSyncHash string
	if syncStatus != nil {
		lastSyncHash = syncStatus.LastSyncHash
	}

	if lastSyncHash == "" {
		return true, nil
	}

	sourceHandler, err := d.sourceHandlerFactory.CreateHandler(res.GetType())
	if err != nil {
		return true, err
	}

	currentHash, err := sourceHandler.CurrentHash(ctx, res)
	if err != nil {
		return true, err
	}

	return currentHash != lastSyncHash, nil
}

// DefaultAutomaticSyncChecker implements AutomaticSyncChecker
type DefaultAutomaticSyncChecker struct {
	now func() time.Time
}

// IsIntervalSyncNeeded checks if the interval has elapsed since the last attempt.
// A check that runs up to a tenth of the interval early still counts as elapsed,
// so a ticker firing on the interval does not skip every other period.
func (c *DefaultAutomaticSyncChecker) IsIntervalSyncNeeded(
	interval time.Duration, syncStatus *status.SyncStatus,
) (bool, time.Time) {
	now := time.Now()
	if c.now != nil {
		now = c.now()
	}

	if interval <= 0 {
		return false, time.Time{}
	}

	var lastAttempt *time.Time
	if syncStatus != nil {
		lastAttempt = syncStatus.LastAttempt
	}
	if lastAttempt == nil {
		return true, now.Add(interval)
	}

	nextSyncTime := lastAttempt.Add(interval)
	if !now.Add(interval / 10).Before(nextSyncTime) {
		return true, now.Add(interval)
	}

	return false, nextSyncTime
}
