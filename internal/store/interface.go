package store

import (
	"context"

	"fileshelf/internal/models"
)

// ReferenceStore is the reference data surface the reconciler works against.
type ReferenceStore interface {
	ListTags(ctx context.Context) ([]string, error)
	InsertTag(ctx context.Context, name string) error
	DeleteTag(ctx context.Context, name string) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	InsertCategory(ctx context.Context, name string) (int64, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListCategoryValues(ctx context.Context, categoryID int64) ([]string, error)
	InsertCategoryValue(ctx context.Context, categoryID int64, value string) error
	DeleteCategoryValue(ctx context.Context, categoryID int64, value string) error
}

// FileStore abstracts file rows and their associations.
type FileStore interface {
	FileExists(path string) (bool, error)
	CreateFileWithAssociations(ctx context.Context, file *models.File, tags []string, values []models.ValueRef) error
	GetFile(ctx context.Context, path string) (*models.File, error)
	ListFiles(ctx context.Context) ([]models.File, error)
	ListFileTags(ctx context.Context, path string) ([]string, error)
	ListFileValues(ctx context.Context, path string) ([]models.ValueRef, error)
}

var (
	_ ReferenceStore = (*Store)(nil)
	_ FileStore      = (*Store)(nil)
)
