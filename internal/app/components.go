package app

import (
	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/service"
	"github.com/campusweb/content-server/internal/store"
	"github.com/campusweb/content-server/internal/sync/coordinator"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// SyncCoordinator refetches every resource in the background
	SyncCoordinator coordinator.Coordinator

	// ContentService provides the content business logic
	ContentService service.ContentService

	// Catalogue holds the schema of every served resource
	Catalogue *entity.Catalogue

	// Store holds the current snapshot of every resource
	Store store.Store
}
