package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/project-shkedia/media-db-service/pkg/auth"
	"github.com/project-shkedia/media-db-service/pkg/crud"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/repositories"
	"github.com/project-shkedia/media-db-service/pkg/services"
)

func collectionsCmd(configPath *string) *cobra.Command {
	var owner string
	var names []string
	var byEngine bool
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List collections, or preview the named ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollections(cmd.Context(), *configPath, owner, names, byEngine)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Restrict to media owned by this user id")
	cmd.Flags().StringSliceVar(&names, "name", nil, "Collection names to preview")
	cmd.Flags().BoolVar(&byEngine, "by-engine", false, "Match --name against engine names")
	return cmd
}

func runCollections(ctx context.Context, configPath, owner string, names []string, byEngine bool) error {
	cfg, logger, err := loadRuntime(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := openStore(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if owner != "" {
		ctx = auth.WithOwnerID(ctx, owner)
	}
	svc := services.NewCollectionService(crud.NewEngine(db, logger), repositories.NewCollectionRepository(db), logger)

	if len(names) == 0 {
		collections, err := svc.ListCollections(ctx)
		if err != nil {
			return err
		}
		if len(collections) == 0 {
			fmt.Fprintln(os.Stdout, "No collections found.")
			return nil
		}
		for _, c := range collections {
			fmt.Fprintf(os.Stdout, "%s [%s]\n", c.Name, c.EngineName)
		}
		return nil
	}

	field := models.CollectionByName
	if byEngine {
		field = models.CollectionByEngine
	}
	previews, err := svc.GetCollectionsMetadataByNames(ctx, names, field)
	if err != nil {
		return err
	}
	for _, p := range previews {
		fmt.Fprintf(os.Stdout, "%s [%s] %d media, thumbnail from %s\n", p.Name, p.EngineName, len(p.MediaList), p.ThumbnailMediaID)
	}
	return nil
}
