package app

import (
	"fmt"
	"os"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/entity"
	"github.com/campusweb/content-server/internal/logger"
)

// InitializeCatalogue compiles the schema of every configured resource.
// Missing local source files are reported but not fatal; the resource stays
// unloaded until the file appears.
func InitializeCatalogue(cfg *config.Config) (*entity.Catalogue, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	catalogue, err := entity.NewCatalogue(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build entity catalogue: %w", err)
	}

	fileCount := 0
	for i := range cfg.Resources {
		res := &cfg.Resources[i]
		schema, _ := catalogue.Get(res.Name)
		logger.Debugw("Resource configured",
			"resource", res.Name,
			"entity", schema.Name,
			"source", res.GetType(),
			"public_read", schema.PublicRead,
			"public_submit", schema.PublicSubmit,
			"interval", cfg.GetSyncInterval(res).String(),
		)

		if res.GetType() != config.SourceTypeFile {
			continue
		}
		fileCount++
		if _, err := os.Stat(res.File.Path); err != nil {
			logger.Warnf("Source file for resource %s is not readable yet: %v", res.Name, err)
		}
	}

	n := len(cfg.Resources)
	logger.Infof("Serving %d resource%s (%d from local file%s)",
		n, pluralize(n, "", "s"), fileCount, pluralize(fileCount, "", "s"))

	return catalogue, nil
}

// pluralize returns singular or plural suffix based on count
func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
