// Package sync keeps each served collection in step with its source.
//
// # Core Interfaces
//
//   - Manager: decides whether a resource needs a sync and performs it
//   - DataChangeDetector: detects source changes by comparing content hashes
//   - AutomaticSyncChecker: decides whether a resource's refetch interval elapsed
//
// The sync/coordinator subpackage schedules syncs: it runs the initial sync of
// every resource, then one loop per resource driven by its interval and by
// manual triggers, and persists the sync status after every attempt.
//
// # Sync Decision Making
//
// Manager.ShouldSync returns a Reason. Reason.ShouldSync reports whether the
// sync should run:
//
//   - ReasonResourceNotReady: no snapshot published yet
//   - ReasonSourceDataChanged: the source hash differs from the last sync
//   - ReasonManualWithChanges: a manual sync found changed data
//   - ReasonErrorCheckingChanges: the hash check failed, sync anyway
//
// and skips otherwise:
//
//   - ReasonAlreadyInProgress, ReasonManualNoChanges, ReasonUpToDateWithPolicy
//
// A successful sync replaces the resource's snapshot wholesale; there is no
// incremental patching of a published collection.
package sync
