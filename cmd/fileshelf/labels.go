package main

import (
	"github.com/spf13/cobra"

	"fileshelf/internal/api"
	"fileshelf/internal/config"
)

func newTagsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List stored tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				tags, err := client.ListTags(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(tags)
				}
				for _, tag := range tags {
					if err := writePlain("%s\n", tag); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newCategoriesCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List stored categories with their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				categories, err := client.ListCategories(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(categories)
				}
				return writeCategories(categories)
			})
		},
	}
}

func newFileCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Inspect cataloged files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <path>",
		Short: "Show a file and its associations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				detail, err := client.GetFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(detail)
				}
				return writeFileDetail(detail)
			})
		},
	})
	return cmd
}
