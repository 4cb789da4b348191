package coordinator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/otel"
	"github.com/campusweb/content-server/internal/status"
	pkgsync "github.com/campusweb/content-server/internal/sync"
)

// checkResourceSync performs a sync check and updates status accordingly for a resource
func (c *defaultCoordinator) checkResourceSync(
	ctx context.Context, res *config.ResourceConfig, checkType string, manual bool,
) {
	current, _ := c.Status(res.Name)

	reason := c.manager.ShouldSync(ctx, res, current, manual)
	logger.Infof("Resource '%s': %s sync check: shouldSync=%v, reason=%s",
		res.Name, checkType, reason.ShouldSync(), reason)

	if reason.ShouldSync() {
		c.performResourceSync(ctx, res)
	} else {
		c.updateStatusForSkippedSync(ctx, res, reason)
	}
}

// performResourceSync executes a sync operation and updates status for a resource
func (c *defaultCoordinator) performResourceSync(ctx context.Context, res *config.ResourceConfig) {
	resourceName := res.Name

	ctx, span := otel.StartSpan(ctx, c.tracer, "sync.perform", trace.WithAttributes(
		otel.AttrResource.String(resourceName),
		otel.AttrSourceType.String(res.GetType()),
	))
	defer span.End()

	// Ensure status is persisted at the end, whatever the result
	defer func() {
		final, _ := c.Status(resourceName)
		if err := c.statusPersistence.SaveStatus(context.WithoutCancel(ctx), resourceName, final); err != nil {
			logger.Errorf("Resource '%s': Failed to persist final sync status: %v", resourceName, err)
		}
	}()

	syncing := c.updateResourceStatus(resourceName, func(syncStatus *status.SyncStatus) {
		syncStatus.Phase = status.SyncPhaseSyncing
		syncStatus.Message = "Sync in progress"
		now := time.Now()
		syncStatus.LastAttempt = &now
		syncStatus.AttemptCount++
	})
	if err := c.statusPersistence.SaveStatus(ctx, resourceName, syncing); err != nil {
		logger.Warnf("Resource '%s': Failed to persist syncing status: %v", resourceName, err)
	}
	attemptCount := syncing.AttemptCount

	logger.Infof("Resource '%s': Starting sync operation (attempt %d)", resourceName, attemptCount)

	startTime := time.Now()
	result, syncErr := c.manager.PerformSync(ctx, res)
	syncDuration := time.Since(startTime)

	now := time.Now()
	c.updateResourceStatus(resourceName, func(syncStatus *status.SyncStatus) {
		if syncErr != nil {
			syncStatus.Phase = status.SyncPhaseFailed
			syncStatus.Message = syncErr.Message
			logger.Errorw("Sync failed",
				"resource", resourceName,
				"condition", syncErr.ConditionType,
				"reason", syncErr.ConditionReason,
				"error", syncErr.Message)
			return
		}

		syncStatus.Phase = status.SyncPhaseComplete
		syncStatus.Message = "Sync completed successfully"
		syncStatus.LastSyncTime = &now
		syncStatus.LastSyncHash = result.Hash
		syncStatus.RecordCount = result.RecordCount
		syncStatus.ActiveCount = result.ActiveCount
		syncStatus.AttemptCount = 0
		logger.Infof("Resource '%s': Sync completed successfully: %d records (%d active), hash=%s",
			resourceName, result.RecordCount, result.ActiveCount, hashPreview(result.Hash))
	})

	c.syncMetrics.RecordSyncDuration(ctx, resourceName, syncDuration, syncErr == nil)
	if syncErr != nil {
		otel.RecordError(span, syncErr)
	} else {
		span.SetAttributes(otel.AttrResultCount.Int(result.RecordCount))
		c.contentMetrics.RecordCollectionSize(ctx, resourceName, int64(result.RecordCount), int64(result.ActiveCount))
	}
}

// updateStatusForSkippedSync records why a sync check did not sync.
// An in-progress sync owns the status and is left untouched.
func (c *defaultCoordinator) updateStatusForSkippedSync(
	ctx context.Context, res *config.ResourceConfig, reason pkgsync.Reason,
) {
	if reason == pkgsync.ReasonAlreadyInProgress {
		return
	}

	resourceName := res.Name
	message := fmt.Sprintf("Sync skipped: %s", reason)
	if pkgsync.IsManualSync(reason) {
		message = fmt.Sprintf("Manual sync skipped: %s", reason)
	}

	changed := false
	skipped := c.updateResourceStatus(resourceName, func(syncStatus *status.SyncStatus) {
		if syncStatus.Phase == status.SyncPhaseComplete && syncStatus.Message == message {
			return
		}
		syncStatus.Phase = status.SyncPhaseComplete
		syncStatus.Message = message
		changed = true
	})
	if !changed {
		return
	}
	if err := c.statusPersistence.SaveStatus(ctx, resourceName, skipped); err != nil {
		logger.Warnf("Resource '%s': Failed to persist skipped sync status: %v", resourceName, err)
	}
}

// updateResourceStatus applies fn to the resource's status under the coordinator
// lock and returns a copy taken before the lock is released. Persisting the copy
// is left to the caller so storage I/O never holds the lock.
func (c *defaultCoordinator) updateResourceStatus(
	resourceName string, fn func(*status.SyncStatus),
) *status.SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.statuses[resourceName]
	if !ok {
		st = &status.SyncStatus{}
		c.statuses[resourceName] = st
	}
	fn(st)
	cp := *st
	return &cp
}

func hashPreview(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
