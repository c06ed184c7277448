package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:          "media-db-service",
		Short:        "Media catalogue store for Project Shkedia",
		SilenceUsage: true,
	}
	root.Version = Version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML configuration file")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(migrateCmd(&configPath))
	root.AddCommand(collectionsCmd(&configPath))

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
