// Package coordinator schedules background synchronization of every served resource.
//
// It sits on top of sync.Manager and handles:
//
//   - Restoring cached collections and running the initial sync on startup
//   - One sync loop per resource, ticking at the resource's refetch interval
//   - Manual triggers from admin mutations and the sync endpoint
//   - Status persistence and thread-safe status access
//
// # Usage Example
//
//	syncManager := sync.NewDefaultSyncManager(cfg, catalogue, factory, storage, st)
//	coord := coordinator.New(syncManager, statusPersistence, cfg)
//
//	go coord.Start(ctx)
//	// ... run server ...
//	coord.Stop()
//
// # Triggers
//
// Each resource has a trigger channel with room for one pending request.
// Trigger never blocks; a request made while another is pending is absorbed by it,
// so a burst of mutations causes a single refetch after the current one.
//
// # Sync Decision Flow
//
//  1. The ticker fires or a trigger arrives
//  2. checkResourceSync asks Manager.ShouldSync for a Reason
//  3. If the reason calls for a sync, performResourceSync runs it
//  4. Status is updated and persisted at each phase transition
//
// A failed sync leaves the previous snapshot published and the status Failed.
// The next tick retries it.
package coordinator
