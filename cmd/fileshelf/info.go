package main

import (
	"github.com/spf13/cobra"

	"fileshelf/internal/api"
	"fileshelf/internal/config"
)

func newInfoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show database and catalog info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(resp)
				}

				_ = writePlain("db_path: %s\n", resp.DBPath)
				_ = writePlain("catalog_path: %s\n", resp.CatalogPath)
				_ = writePlain("configured: %t\n", resp.Configured)
				if resp.Folder != "" {
					_ = writePlain("folder: %s\n", resp.Folder)
				}
				_ = writePlain("store_open: %t\n", resp.StoreOpen)
				if !resp.StoreOpen {
					return nil
				}
				_ = writePlain("schema_version: %d\n", resp.SchemaVersion)
				_ = writePlain("files: %d\n", resp.Files)
				_ = writePlain("tags: %d\n", resp.Tags)
				_ = writePlain("categories: %d\n", resp.Categories)
				_ = writePlain("category_values: %d\n", resp.CategoryValues)
				return nil
			})
		},
	}
}
