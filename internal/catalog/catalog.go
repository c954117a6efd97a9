// Package catalog reads and writes the catalog document: the persisted form
// of the desired snapshot (managed folder, save_date, tags, categories).
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"fileshelf/internal/models"
)

// ErrInvalidSnapshot means a document failed validation.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Format is a catalog document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension. Unknown extensions
// use JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and validates the document at path. A missing document returns
// an error matching os.ErrNotExist.
func Load(path string) (models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Snapshot{}, err
	}
	snap, err := Decode(data, FormatFor(path))
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return snap, nil
}

// Decode parses and validates a document.
func Decode(data []byte, format Format) (models.Snapshot, error) {
	var snap models.Snapshot
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &snap)
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	default:
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return models.Snapshot{}, err
	}
	if err := Validate(snap); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// Encode renders a snapshot in the given format.
func Encode(snap models.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(snap); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(snap)
	default:
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Save validates snap and writes it to path, replacing any previous document
// only once the new one is fully written.
func Save(path string, snap models.Snapshot) error {
	if err := Validate(snap); err != nil {
		return err
	}
	data, err := Encode(snap, FormatFor(path))
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Validate rejects empty names. Duplicates are accepted here and reported
// by reconciliation.
func Validate(snap models.Snapshot) error {
	for i, tag := range snap.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: tag %d has an empty name", ErrInvalidSnapshot, i)
		}
	}
	for i, cat := range snap.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("%w: category %d has an empty name", ErrInvalidSnapshot, i)
		}
		for j, value := range cat.Values {
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("%w: category %q value %d is empty", ErrInvalidSnapshot, cat.Name, j)
			}
		}
	}
	return nil
}
