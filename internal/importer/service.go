// Package importer moves files into managed storage and registers them in
// the catalog store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fileshelf/internal/models"
	"fileshelf/internal/storage"
	"fileshelf/internal/store"
)

// ErrFilesystemFailure means the source could not be read or the copy into
// managed storage failed. The store is untouched when it is returned.
var ErrFilesystemFailure = errors.New("filesystem failure")

// Request describes one file import.
type Request struct {
	SourcePath string            `json:"source_path"`
	Tags       []string          `json:"tags,omitempty"`
	Values     map[string]string `json:"values,omitempty"`
}

// Catalog is the store surface the importer needs.
type Catalog interface {
	FileExists(path string) (bool, error)
	CreateFileWithAssociations(ctx context.Context, file *models.File, tags []string, values []models.ValueRef) error
}

// Options configures a Service.
type Options struct {
	IDLength int
	SaveDate bool
	Orphans  OrphanPolicy
	Logger   *slog.Logger
}

// Service imports files.
type Service struct {
	catalog  Catalog
	storage  storage.Storage
	idLength int
	saveDate bool
	orphans  OrphanPolicy
	logger   *slog.Logger
}

// NewService creates an import service.
func NewService(catalog Catalog, st storage.Storage, opts Options) *Service {
	l := logger(opts.Logger)
	if opts.IDLength <= 0 {
		opts.IDLength = store.DefaultFolderIDLength
	}
	if opts.Orphans == nil {
		opts.Orphans = KeepOrphans{Logger: l}
	}
	return &Service{
		catalog:  catalog,
		storage:  st,
		idLength: opts.IDLength,
		saveDate: opts.SaveDate,
		orphans:  opts.Orphans,
		logger:   l,
	}
}

// Import copies the source file into a fresh folder and inserts its File row
// with the requested associations. Tags and values must already exist; the
// service never creates reference rows.
//
// If the copy succeeds but the insert fails, the configured OrphanPolicy
// decides what happens to the copy and the insert error is returned.
func (s *Service) Import(ctx context.Context, req Request) (*models.File, error) {
	source := strings.TrimSpace(req.SourcePath)
	if source == "" {
		return nil, fmt.Errorf("%w: source path is required", ErrFilesystemFailure)
	}
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilesystemFailure, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrFilesystemFailure, source)
	}

	folder, err := store.GenerateFolderID(s.idLength, func(id string) (bool, error) {
		if ok, err := s.catalog.FileExists(id); err != nil || ok {
			return ok, err
		}
		return s.storage.Exists(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("generate folder id: %w", err)
	}

	put, err := s.copy(ctx, source, folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilesystemFailure, err)
	}

	file := &models.File{
		Path:      folder,
		Name:      put.Filename,
		SizeBytes: put.SizeBytes,
		Checksum:  put.Checksum,
	}
	if s.saveDate {
		modified := info.ModTime().UTC()
		file.SourceModifiedAt = &modified
	}

	if err := s.catalog.CreateFileWithAssociations(ctx, file, req.Tags, valueRefs(req.Values)); err != nil {
		s.orphans.HandleOrphan(ctx, s.storage, folder, err)
		return nil, err
	}

	s.logger.Info("file imported",
		"path", file.Path,
		"name", file.Name,
		"size_bytes", file.SizeBytes,
		"tags", len(req.Tags),
		"values", len(req.Values))
	return file, nil
}

func (s *Service) copy(ctx context.Context, source, folder string) (storage.PutResult, error) {
	f, err := os.Open(source)
	if err != nil {
		return storage.PutResult{}, err
	}
	defer f.Close()
	return s.storage.Put(ctx, folder, filepath.Base(source), f)
}

// valueRefs flattens a category->value map in category order.
func valueRefs(values map[string]string) []models.ValueRef {
	if len(values) == 0 {
		return nil
	}
	refs := make([]models.ValueRef, 0, len(values))
	for category, value := range values {
		refs = append(refs, models.ValueRef{Category: category, Value: value})
	}
	slices.SortFunc(refs, func(a, b models.ValueRef) int { return strings.Compare(a.Category, b.Category) })
	return refs
}
