package app

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/sources"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file and, optionally, its sources",
		Long: `Load the configuration, compile the entity schema of every resource and check
each source configuration. With --fetch every collection is also fetched once and
validated against its schema.`,
		RunE: runValidate,
	}
	addConfigFlag(cmd)
	cmd.Flags().Bool("fetch", false, "Fetch and validate every collection")
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	fetch, err := cmd.Flags().GetBool("fetch")
	if err != nil {
		return fmt.Errorf("failed to get fetch flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	catalogue, err := entity.NewCatalogue(cfg)
	if err != nil {
		return fmt.Errorf("invalid entity configuration: %w", err)
	}
	factory := sources.NewSourceHandlerFactory(cfg)

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("resource", "entity", "source", "records", "active", "status")

	failed := 0
	for i := range cfg.Resources {
		res := &cfg.Resources[i]
		schema, _ := catalogue.Get(res.Name)
		row := []string{res.Name, schema.Name, res.GetType(), "-", "-", "ok"}

		handler, err := factory.CreateHandler(res.GetType())
		if err == nil {
			err = handler.Validate(res)
		}
		if err == nil && fetch {
			var result *sources.FetchResult
			result, err = handler.FetchCollection(cmd.Context(), res, schema)
			if err == nil {
				row[3] = fmt.Sprint(result.RecordCount)
				row[4] = fmt.Sprint(result.ActiveCount)
			}
		}
		if err != nil {
			failed++
			row[5] = err.Error()
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d resources failed validation", failed, len(cfg.Resources))
	}
	return nil
}
