// Package main is the entry point for the school content server.
package main

import (
	"os"

	"github.com/campusweb/content-server/cmd/content-server/app"
	"github.com/campusweb/content-server/internal/logger"
)

func main() {
	err := app.NewRootCmd().Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
