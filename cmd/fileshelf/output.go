package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"fileshelf/internal/models"
)

func writeJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeFileDetail(detail models.FileDetail) error {
	file := detail.File
	lines := []string{
		fmt.Sprintf("path: %s", file.Path),
		fmt.Sprintf("name: %s", file.Name),
		fmt.Sprintf("size_bytes: %d", file.SizeBytes),
		fmt.Sprintf("created_at: %s", formatTime(file.CreatedAt)),
	}
	if file.Checksum != "" {
		lines = append(lines, fmt.Sprintf("checksum: %s", file.Checksum))
	}
	if file.SourceModifiedAt != nil {
		lines = append(lines, fmt.Sprintf("source_modified_at: %s", formatTime(*file.SourceModifiedAt)))
	}
	if len(detail.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("tags: %s", strings.Join(detail.Tags, ", ")))
	}
	if len(detail.Values) > 0 {
		lines = append(lines, "values:")
		for _, ref := range detail.Values {
			lines = append(lines, fmt.Sprintf("  - %s: %s", ref.Category, ref.Value))
		}
	}
	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func writeCategories(categories []models.Category) error {
	for _, cat := range categories {
		if err := writePlain("%s: %s\n", cat.Name, strings.Join(cat.Values, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
