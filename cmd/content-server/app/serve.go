package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	contentapp "github.com/campusweb/content-server/internal/app"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/telemetry"
)

const (
	defaultGracefulTimeout = 30 * time.Second
	telemetryFlushTimeout  = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the content API server",
		Long: `Start the content API server.

The server requires a configuration file (--config) that lists the served resources,
where each collection is fetched from (the upstream REST backend or a local JSON file),
how often it is refetched, and where sync status and cached collections are kept.

See the examples/ directory for sample configurations.`,
		RunE: runServe,
	}

	addConfigFlag(cmd)
	cmd.Flags().String("address", "", "Address to listen on (overrides the config file)")
	cmd.Flags().Duration("request-timeout", 0, "Per-request timeout (default 10s)")
	cmd.Flags().Bool("no-admin", false, "Do not mount the admin API")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.Infof("Loaded configuration with %d resources", len(cfg.Resources))

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Failed to shut down telemetry: %v", err)
		}
	}()

	opts, err := serveOptions(cmd)
	if err != nil {
		return err
	}
	opts = append(opts, contentapp.WithConfig(cfg), contentapp.WithTelemetry(tel))

	app, err := contentapp.NewContentApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to build content server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		_ = app.Stop(defaultGracefulTimeout)
		return err
	case <-ctx.Done():
	}

	return app.Stop(defaultGracefulTimeout)
}

// serveOptions turns the serve flags into application options
func serveOptions(cmd *cobra.Command) ([]contentapp.ContentAppOptions, error) {
	var opts []contentapp.ContentAppOptions

	address, err := cmd.Flags().GetString("address")
	if err != nil {
		return nil, fmt.Errorf("failed to get address flag: %w", err)
	}
	if address != "" {
		opts = append(opts, contentapp.WithAddress(address))
	}

	timeout, err := cmd.Flags().GetDuration("request-timeout")
	if err != nil {
		return nil, fmt.Errorf("failed to get request-timeout flag: %w", err)
	}
	if timeout > 0 {
		opts = append(opts, contentapp.WithRequestTimeout(timeout))
	}

	noAdmin, err := cmd.Flags().GetBool("no-admin")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-admin flag: %w", err)
	}
	if noAdmin {
		opts = append(opts, contentapp.WithoutAdminAPI())
	}

	return opts, nil
}
