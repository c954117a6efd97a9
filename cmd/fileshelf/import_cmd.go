package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fileshelf/internal/api"
	"fileshelf/internal/config"
)

func newImportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var tags []string
	var values []string

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Copy a file into the managed folder and catalog it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			parsed, err := parseValueFlags(values)
			if err != nil {
				return err
			}

			req := api.ImportRequest{
				SourcePath: source,
				Tags:       splitTagFlags(tags),
				Values:     parsed,
			}
			return withClient(cfg, func(client *api.Client) error {
				file, err := client.Import(cmd.Context(), req)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(file)
				}
				return writePlain("imported %s as %s\n", file.Name, file.Path)
			})
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag to attach (repeatable)")
	cmd.Flags().StringArrayVar(&values, "value", nil, "category value as category=value (repeatable)")
	return cmd
}

// parseValueFlags turns category=value pairs into a map. Each category may
// be given once.
func parseValueFlags(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, pair := range raw {
		category, value, ok := strings.Cut(pair, "=")
		category = strings.TrimSpace(category)
		if !ok || category == "" || value == "" {
			return nil, fmt.Errorf("invalid --value %q (expected category=value)", pair)
		}
		if _, dup := out[category]; dup {
			return nil, fmt.Errorf("category %q given more than once", category)
		}
		out[category] = value
	}
	return out, nil
}

func splitTagFlags(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
