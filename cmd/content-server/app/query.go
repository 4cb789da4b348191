package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/filtering"
	"github.com/campusweb/content-server/internal/record"
	"github.com/campusweb/content-server/internal/service"
	"github.com/campusweb/content-server/internal/service/inmemory"
	"github.com/campusweb/content-server/internal/sources"
	"github.com/campusweb/content-server/internal/spreadsheet"
	"github.com/campusweb/content-server/internal/store"
	pkgsync "github.com/campusweb/content-server/internal/sync"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatXLSX  = "xlsx"
)

type queryFlags struct {
	search  string
	filters []string
	sort    string
	order   string
	limit   int
	offset  int
	all     bool
	format  string
	outFile string
}

func newQueryCmd() *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query RESOURCE",
		Short: "Fetch one resource and print a filtered view of it",
		Long: `Fetch a resource once from its configured source and print the records that match
the given search text, field filters and sort order.

Examples:
  # Gold medal achievements of 2024, highest marks first
  content-server query achievements --config config.yaml --search gold --filter year=2024 --sort marks --order desc

  # Export every faculty record, including hidden fields, to a workbook
  content-server query faculty --config config.yaml --all --output xlsx --output-file faculty.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], flags)
		},
	}

	addConfigFlag(cmd)
	cmd.Flags().StringVar(&flags.search, "search", "", "Case-insensitive text to search for")
	cmd.Flags().StringArrayVar(&flags.filters, "filter", nil, "Field filter as field=value (repeatable)")
	cmd.Flags().StringVar(&flags.sort, "sort", "", "Field to sort by")
	cmd.Flags().StringVar(&flags.order, "order", "", "Sort order (asc or desc)")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Maximum number of records (0 = all)")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "Number of matching records to skip")
	cmd.Flags().BoolVar(&flags.all, "all", false, "Include inactive records and hidden fields")
	cmd.Flags().StringVarP(&flags.format, "output", "o", formatTable, "Output format (table, json, xlsx)")
	cmd.Flags().StringVar(&flags.outFile, "output-file", "", "Write output to a file instead of stdout")
	return cmd
}

func runQuery(cmd *cobra.Command, resource string, flags *queryFlags) error {
	ctx := cmd.Context()

	switch flags.format {
	case formatTable, formatJSON, formatXLSX:
	default:
		return fmt.Errorf("unsupported output format %q", flags.format)
	}

	listOpts, err := flags.listOptions()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, ok := cfg.GetResource(resource)
	if !ok {
		return fmt.Errorf("resource %q is not configured (known: %s)", resource, strings.Join(cfg.ResourceNames(), ", "))
	}

	queryCfg := &config.Config{Upstream: cfg.Upstream, Resources: []config.ResourceConfig{*res}}
	catalogue, err := entity.NewCatalogue(queryCfg)
	if err != nil {
		return err
	}

	st := store.NewMemoryStore()
	factory := sources.NewSourceHandlerFactory(queryCfg)
	manager := pkgsync.NewDefaultSyncManager(queryCfg, catalogue, factory, sources.NewNoopStorageManager(), st)
	if _, syncErr := manager.PerformSync(ctx, res); syncErr != nil {
		return fmt.Errorf("failed to fetch %s: %w", resource, syncErr)
	}

	svc, err := inmemory.New(queryCfg, catalogue, st, factory)
	if err != nil {
		return err
	}
	result, err := svc.ListRecords(ctx, resource, listOpts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.outFile != "" {
		f, err := os.Create(flags.outFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return writeResult(out, flags.format, result)
}

// listOptions converts the query flags into service list options
func (f *queryFlags) listOptions() ([]service.Option, error) {
	visibility := service.VisibilityPublic
	if f.all {
		visibility = service.VisibilityAdmin
	}
	opts := []service.Option{
		service.WithVisibility(visibility),
		service.WithSearch(f.search),
		service.WithLimit(f.limit),
		service.WithOffset(f.offset),
	}

	if f.sort != "" {
		direction, err := filtering.ParseSortDirection(f.order)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithSort(f.sort, direction))
	} else if f.order != "" {
		return nil, fmt.Errorf("--order requires --sort")
	}

	for _, filter := range f.filters {
		field, value, found := strings.Cut(filter, "=")
		if !found || field == "" {
			return nil, fmt.Errorf("invalid filter %q: expected field=value", filter)
		}
		opts = append(opts, service.WithFilter(field, value))
	}
	return opts, nil
}

func writeResult(w io.Writer, format string, result *service.ListResult) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case formatXLSX:
		return spreadsheet.Write(w, result.Resource, result.Columns, result.Records)
	default:
		return writeTable(w, result)
	}
}

func writeTable(w io.Writer, result *service.ListResult) error {
	table := tablewriter.NewWriter(w)
	header := make([]any, len(result.Columns))
	for i, c := range result.Columns {
		header[i] = c
	}
	table.Header(header...)

	for _, rec := range result.Records {
		if err := table.Append(tableRow(result.Columns, rec)); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err := fmt.Fprintf(w, "%d of %d records\n", len(result.Records), result.Total)
	return err
}

func tableRow(columns []string, rec record.Record) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i], _ = record.Scalar(rec[c])
	}
	return row
}
