package status

import "time"

// SyncPhase represents the current phase of a synchronization operation
type SyncPhase string

const (
	// SyncPhaseSyncing means sync is currently in progress
	SyncPhaseSyncing SyncPhase = "Syncing"

	// SyncPhaseComplete means sync completed successfully
	SyncPhaseComplete SyncPhase = "Complete"

	// SyncPhaseFailed means sync failed
	SyncPhaseFailed SyncPhase = "Failed"
)

// SyncStatus represents the current state of a resource's synchronization
type SyncStatus struct {
	// Phase represents the current synchronization phase
	Phase SyncPhase `json:"phase"`

	// Message provides additional information about the sync status
	Message string `json:"message,omitempty"`

	// LastAttempt is the timestamp of the last sync attempt
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`

	// AttemptCount is the number of sync attempts since last success
	AttemptCount int `json:"attemptCount,omitempty"`

	// LastSyncTime is the timestamp of the last successful sync
	LastSyncTime *time.Time `json:"lastSyncTime,omitempty"`

	// LastSyncHash is the hash of the last successfully synced data.
	// Used to detect changes in source data
	LastSyncHash string `json:"lastSyncHash,omitempty"`

	// RecordCount is the number of records in the last synced collection
	RecordCount int `json:"recordCount"`

	// ActiveCount is the number of publicly visible records in the last synced collection
	ActiveCount int `json:"activeCount"`

	// SyncSchedule is the effective refetch interval (e.g. "5m0s")
	SyncSchedule string `json:"syncSchedule,omitempty"`
}

// IsSynced reports whether the resource has completed at least one sync
func (s *SyncStatus) IsSynced() bool {
	return s != nil && s.LastSyncTime != nil
}
