// Package app provides application lifecycle management for the content server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/logger"
)

// ContentApp encapsulates all components needed to run the content server.
// It provides lifecycle management and graceful shutdown capabilities.
type ContentApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start starts the sync coordinator in the background and serves HTTP.
// It blocks until the HTTP server stops or encounters an error.
func (app *ContentApp) Start() error {
	listener, err := net.Listen("tcp", app.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return app.Serve(listener)
}

// Serve is Start on an existing listener
func (app *ContentApp) Serve(listener net.Listener) error {
	go func() {
		if err := app.components.SyncCoordinator.Start(app.ctx); err != nil {
			logger.Errorf("Sync coordinator failed: %v", err)
		}
	}()

	logger.Infof("Server listening on %s", listener.Addr())
	if err := app.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout.
// It stops the sync coordinator and then shuts down the HTTP server.
func (app *ContentApp) Stop(timeout time.Duration) error {
	logger.Info("Shutting down server...")

	if err := app.components.SyncCoordinator.Stop(); err != nil {
		logger.Errorf("Failed to stop sync coordinator: %v", err)
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *ContentApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server
func (app *ContentApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// GetComponents returns the wired application components
func (app *ContentApp) GetComponents() *AppComponents {
	return app.components
}
