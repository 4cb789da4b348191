package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/sources"
	"github.com/campusweb/content-server/internal/status"
	"github.com/campusweb/content-server/internal/store"
)

// Result contains the result of a successful sync operation
type Result struct {
	Hash        string
	RecordCount int
	ActiveCount int
}

// Reason explains a ShouldSync decision
type Reason string

// Sync reasons that start a sync
const (
	ReasonResourceNotReady     Reason = "resource-not-ready"
	ReasonSourceDataChanged    Reason = "source-data-changed"
	ReasonErrorCheckingChanges Reason = "error-checking-data-changes"
	ReasonManualWithChanges    Reason = "manual-sync-with-data-changes"
)

// Sync reasons that skip a sync
const (
	ReasonAlreadyInProgress     Reason = "sync-already-in-progress"
	ReasonManualNoChanges       Reason = "manual-sync-no-data-changes"
	ReasonErrorCheckingSyncNeed Reason = "error-checking-sync-need"
	ReasonUpToDateWithPolicy    Reason = "up-to-date-with-policy"
)

// ShouldSync reports whether the reason calls for a sync
func (r Reason) ShouldSync() bool {
	switch r {
	case ReasonResourceNotReady, ReasonSourceDataChanged, ReasonErrorCheckingChanges, ReasonManualWithChanges:
		return true
	default:
		return false
	}
}

// String returns the reason code
func (r Reason) String() string {
	return string(r)
}

// IsManualSync checks if the sync reason indicates a manual sync
func IsManualSync(reason Reason) bool {
	return reason == ReasonManualWithChanges || reason == ReasonManualNoChanges
}

// Condition reasons for failed syncs
const (
	conditionReasonSchemaNotFound        = "SchemaNotFound"
	conditionReasonHandlerCreationFailed = "HandlerCreationFailed"
	conditionReasonValidationFailed      = "ValidationFailed"
	conditionReasonFetchFailed           = "FetchFailed"
)

// Condition types reported with a sync Error
const (
	// ConditionSourceAvailable indicates whether the source is available and accessible
	ConditionSourceAvailable = "SourceAvailable"

	// ConditionDataValid indicates whether the collection data is valid
	ConditionDataValid = "DataValid"

	// ConditionSyncSuccessful indicates whether the last sync was successful
	ConditionSyncSuccessful = "SyncSuccessful"
)

// Error represents a sync failure with the condition it affects
type Error struct {
	Err             error
	Message         string
	ConditionType   string
	ConditionReason string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Manager manages synchronization of content collections
//
//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks github.com/campusweb/content-server/internal/sync Manager
type Manager interface {
	// ShouldSync determines if a sync is needed for a resource
	ShouldSync(ctx context.Context, res *config.ResourceConfig, syncStatus *status.SyncStatus, manualSyncRequested bool) Reason

	// PerformSync fetches the resource's collection and publishes it to the store
	PerformSync(ctx context.Context, res *config.ResourceConfig) (*Result, *Error)

	// Restore publishes the cached collection of a resource, if one was stored.
	// Returns false when nothing was cached.
	Restore(ctx context.Context, res *config.ResourceConfig) (bool, error)
}

// DataChangeDetector detects changes in source data
type DataChangeDetector interface {
	// IsDataChanged checks if source data has changed by comparing hashes
	IsDataChanged(ctx context.Context, res *config.ResourceConfig, syncStatus *status.SyncStatus) (bool, error)
}

// AutomaticSyncChecker handles automatic sync timing logic
type AutomaticSyncChecker interface {
	// IsIntervalSyncNeeded checks if the resource's refetch interval has elapsed.
	// Returns (syncNeeded, nextSyncTime)
	IsIntervalSyncNeeded(interval time.Duration, syncStatus *status.SyncStatus) (bool, time.Time)
}

// defaultSyncManager is the default implementation of Manager
type defaultSyncManager struct {
	sourceHandlerFactory sources.SourceHandlerFactory
	storageManager       sources.StorageManager
	store                store.Store
	catalogue            *entity.Catalogue
	cfg                  *config.Config
	dataChangeDetector   DataChangeDetector
	automaticSyncChecker AutomaticSyncChecker
}

// NewDefaultSyncManager creates a new defaultSyncManager
func NewDefaultSyncManager(
	cfg *config.Config,
	catalogue *entity.Catalogue,
	sourceHandlerFactory sources.SourceHandlerFactory,
	storageManager sources.StorageManager,
	st store.Store,
) Manager {
	return &defaultSyncManager{
		sourceHandlerFactory: sourceHandlerFactory,
		storageManager:       storageManager,
		store:                st,
		catalogue:            catalogue,
		cfg:                  cfg,
		dataChangeDetector:   &DefaultDataChangeDetector{sourceHandlerFactory: sourceHandlerFactory},
		automaticSyncChecker: &DefaultAutomaticSyncChecker{now: time.Now},
	}
}

// ShouldSync determines if a sync operation is needed for a resource.
// A cancelled context never syncs. A resource without a published snapshot always syncs. Otherwise a sync runs
// when the source hash differs from the last synced hash and either the last
// sync failed, the refetch interval elapsed, or a manual sync was requested.
func (s *defaultSyncManager) ShouldSync(
	ctx context.Context,
	res *config.ResourceConfig,
	syncStatus *status.SyncStatus,
	manualSyncRequested bool,
) Reason {
	if err := ctx.Err(); err != nil {
		logger.Debugf("Resource '%s': sync check abandoned: %v", res.Name, err)
		return ReasonErrorCheckingSyncNeed
	}

	if _, ok := s.store.Get(res.Name); !ok {
		return ReasonResourceNotReady
	}

	if syncStatus != nil && syncStatus.Phase == status.SyncPhaseSyncing {
		return ReasonAlreadyInProgress
	}

	syncNeededForState := isSyncNeededForState(syncStatus)
	intervalElapsed, _ := s.automaticSyncChecker.IsIntervalSyncNeeded(s.cfg.GetSyncInterval(res), syncStatus)

	if !syncNeededForState && !manualSyncRequested && !intervalElapsed {
		return ReasonUpToDateWithPolicy
	}

	dataChanged, err := s.dataChangeDetector.IsDataChanged(ctx, res, syncStatus)
	if err != nil {
		logger.Warnf("Failed to check data changes for %s: %v", res.Name, err)
		return ReasonErrorCheckingChanges
	}

	logger.Debugw("ShouldSync",
		"resource", res.Name,
		"syncNeededForState", syncNeededForState,
		"manualSyncRequested", manualSyncRequested,
		"intervalElapsed", intervalElapsed,
		"dataChanged", dataChanged)

	switch {
	case dataChanged && manualSyncRequested:
		return ReasonManualWithChanges
	case dataChanged:
		return ReasonSourceDataChanged
	case manualSyncRequested:
		return ReasonManualNoChanges
	default:
		return ReasonUpToDateWithPolicy
	}
}

// isSyncNeededForState reports whether the last recorded sync did not complete
func isSyncNeededForState(syncStatus *status.SyncStatus) bool {
	if syncStatus == nil {
		return true
	}
	return syncStatus.Phase != status.SyncPhaseComplete
}

// PerformSync fetches the collection, replaces the resource's snapshot wholesale
// and refreshes the on-disk cache
func (s *defaultSyncManager) PerformSync(ctx context.Context, res *config.ResourceConfig) (*Result, *Error) {
	fetchResult, syncErr := s.fetchCollection(ctx, res)
	if syncErr != nil {
		return nil, syncErr
	}

	s.store.Replace(res.Name, fetchResult.Records, fetchResult.Hash)

	if err := s.storageManager.Store(ctx, res.Name, fetchResult.Records); err != nil {
		logger.Warnf("Failed to cache collection %s: %v", res.Name, err)
	}

	return &Result{
		Hash:        fetchResult.Hash,
		RecordCount: fetchResult.RecordCount,
		ActiveCount: fetchResult.ActiveCount,
	}, nil
}

// Restore publishes the cached collection of a resource
func (s *defaultSyncManager) Restore(ctx context.Context, res *config.ResourceConfig) (bool, error) {
	records, err := s.storageManager.Get(ctx, res.Name)
	if errors.Is(err, sources.ErrNotStored) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to restore %s: %w", res.Name, err)
	}
	s.store.Replace(res.Name, records, "")
	logger.Infof("Restored %d cached records for %s", len(records), res.Name)
	return true, nil
}

func (s *defaultSyncManager) fetchCollection(
	ctx context.Context, res *config.ResourceConfig,
) (*sources.FetchResult, *Error) {
	schema, ok := s.catalogue.Get(res.Name)
	if !ok {
		err := fmt.Errorf("no schema for resource %s", res.Name)
		return nil, &Error{
			Err:             err,
			Message:         err.Error(),
			ConditionType:   ConditionDataValid,
			ConditionReason: conditionReasonSchemaNotFound,
		}
	}

	handler, err := s.sourceHandlerFactory.CreateHandler(res.GetType())
	if err != nil {
		return nil, &Error{
			Err:             err,
			Message:         fmt.Sprintf("Failed to create source handler: %v", err),
			ConditionType:   ConditionSourceAvailable,
			ConditionReason: conditionReasonHandlerCreationFailed,
		}
	}

	if err := handler.Validate(res); err != nil {
		return nil, &Error{
			Err:             err,
			Message:         fmt.Sprintf("Source validation failed: %v", err),
			ConditionType:   ConditionSourceAvailable,
			ConditionReason: conditionReasonValidationFailed,
		}
	}

	fetchResult, err := handler.FetchCollection(ctx, res, schema)
	if err != nil {
		return nil, &Error{
			Err:             err,
			Message:         fmt.Sprintf("Fetch failed: %v", err),
			ConditionType:   ConditionSyncSuccessful,
			ConditionReason: conditionReasonFetchFailed,
		}
	}

	logger.Infow("Collection fetched",
		"resource", res.Name,
		"records", fetchResult.RecordCount,
		"active", fetchResult.ActiveCount)

	return fetchResult, nil
}
