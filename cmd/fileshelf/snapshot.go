package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fileshelf/internal/api"
	"fileshelf/internal/catalog"
	"fileshelf/internal/config"
)

func newSnapshotCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Show or apply the catalog configuration",
	}

	cmd.AddCommand(newSnapshotShowCmd(cfg, jsonOutput))
	cmd.AddCommand(newSnapshotApplyCmd(cfg, jsonOutput))
	return cmd
}

func newSnapshotShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the live snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docFormat, err := parseDocumentFormat(format)
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				snap, err := client.GetSnapshot(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(snap)
				}
				data, err := catalog.Encode(snap, docFormat)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", string(catalog.FormatYAML), "document format (json, toml, yaml)")
	return cmd
}

func newSnapshotApplyCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Store a snapshot from a catalog document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(file) == "" {
				return fmt.Errorf("--file is required")
			}
			snap, err := catalog.Load(file)
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.PutSnapshot(cmd.Context(), snap)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				_ = writePlain("tags: +%d -%d\n", resp.TagsInserted, resp.TagsDeleted)
				_ = writePlain("categories: +%d -%d\n", resp.CategoriesInserted, resp.CategoriesDeleted)
				_ = writePlain("values: +%d -%d\n", resp.ValuesInserted, resp.ValuesDeleted)
				for _, warning := range resp.Warnings {
					fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog document (.json, .toml, .yaml)")
	return cmd
}

func parseDocumentFormat(raw string) (catalog.Format, error) {
	switch catalog.Format(strings.ToLower(strings.TrimSpace(raw))) {
	case catalog.FormatJSON:
		return catalog.FormatJSON, nil
	case catalog.FormatTOML:
		return catalog.FormatTOML, nil
	case catalog.FormatYAML, "yml":
		return catalog.FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format %q (allowed: json, toml, yaml)", raw)
	}
}
