package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fileshelf/internal/models"
)

const fileColumns = "id, path, name, size_bytes, checksum, source_modified_at, created_at"

// FileExists reports whether a file row with the given folder path exists.
func (s *Store) FileExists(path string) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}
	var exists int
	err = db.QueryRow("SELECT 1 FROM files WHERE path = ?", path).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertFile inserts a file row and fills in its ID and CreatedAt.
func (s *Store) InsertFile(ctx context.Context, file *models.File) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return insertFile(ctx, db, file)
}

// CreateFileWithAssociations inserts a file row together with its tag and
// category value associations in a single transaction. Any unknown tag or
// value rolls the whole insert back with ErrReferenceNotFound.
func (s *Store) CreateFileWithAssociations(ctx context.Context, file *models.File, tags []string, values []models.ValueRef) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = insertFile(ctx, tx, file); err != nil {
		return err
	}
	for _, tag := range tags {
		if err = associateTag(ctx, tx, file.ID, tag); err != nil {
			return err
		}
	}
	for _, ref := range values {
		if err = associateValue(ctx, tx, file.ID, ref); err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

// AssociateTag links an existing file to an existing tag. Repeating an
// existing association is a no-op.
func (s *Store) AssociateTag(ctx context.Context, filePath, tag string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	fileID, err := fileID(ctx, db, filePath)
	if err != nil {
		return err
	}
	return associateTag(ctx, db, fileID, tag)
}

// AssociateValue links an existing file to an existing category value.
func (s *Store) AssociateValue(ctx context.Context, filePath string, ref models.ValueRef) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	fileID, err := fileID(ctx, db, filePath)
	if err != nil {
		return err
	}
	return associateValue(ctx, db, fileID, ref)
}

// GetFile returns the file stored under path, or nil if there is none.
func (s *Store) GetFile(ctx context.Context, path string) (*models.File, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM files WHERE path = ?", path)
	file, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return file, err
}

// ListFiles returns all files ordered by creation time.
func (s *Store) ListFiles(ctx context.Context) ([]models.File, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT "+fileColumns+" FROM files ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *file)
	}
	return out, rows.Err()
}

// ListFileTags returns the tag names associated with a file.
func (s *Store) ListFileTags(ctx context.Context, path string) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
SELECT t.name FROM file_tags ft
JOIN tags t ON t.id = ft.tag_id
JOIN files f ON f.id = ft.file_id
WHERE f.path = ?
ORDER BY t.name`, path)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

// ListFileValues returns the category values associated with a file.
func (s *Store) ListFileValues(ctx context.Context, path string) ([]models.ValueRef, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
SELECT c.name, cv.value FROM file_values fv
JOIN category_values cv ON cv.id = fv.value_id
JOIN categories c ON c.id = cv.category_id
JOIN files f ON f.id = fv.file_id
WHERE f.path = ?
ORDER BY c.name, cv.value`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ValueRef
	for rows.Next() {
		var ref models.ValueRef
		if err := rows.Scan(&ref.Category, &ref.Value); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// DeleteFile removes a file row; its associations cascade.
func (s *Store) DeleteFile(ctx context.Context, path string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "DELETE FROM files WHERE path = ?", path)
	return err
}

func insertFile(ctx context.Context, q querier, file *models.File) error {
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	res, err := q.ExecContext(ctx,
		"INSERT INTO files (path, name, size_bytes, checksum, source_modified_at, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		file.Path,
		file.Name,
		file.SizeBytes,
		nullIfEmpty(file.Checksum),
		nullTime(file.SourceModifiedAt),
		formatTime(file.CreatedAt),
	)
	if err != nil {
		return classifyWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	file.ID = id
	return nil
}

func fileID(ctx context.Context, q querier, path string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, "SELECT id FROM files WHERE path = ?", path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, referenceNotFound("file", path)
	}
	return id, err
}

func associateTag(ctx context.Context, q querier, fileID int64, tag string) error {
	var tagID int64
	err := q.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", tag).Scan(&tagID)
	if errors.Is(err, sql.ErrNoRows) {
		return referenceNotFound("tag", tag)
	}
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, "INSERT OR IGNORE INTO file_tags (file_id, tag_id) VALUES (?, ?)", fileID, tagID)
	return classifyWriteError(err)
}

func associateValue(ctx context.Context, q querier, fileID int64, ref models.ValueRef) error {
	catID, err := categoryID(ctx, q, ref.Category)
	if err != nil {
		return err
	}
	var valueID int64
	err = q.QueryRowContext(ctx,
		"SELECT id FROM category_values WHERE category_id = ? AND value = ?", catID, ref.Value).Scan(&valueID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: value %q in category %q", ErrReferenceNotFound, ref.Value, ref.Category)
	}
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, "INSERT OR IGNORE INTO file_values (file_id, value_id) VALUES (?, ?)", fileID, valueID)
	return classifyWriteError(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*models.File, error) {
	var (
		file       models.File
		checksum   sql.NullString
		modifiedAt sql.NullString
		createdAt  string
	)
	if err := row.Scan(&file.ID, &file.Path, &file.Name, &file.SizeBytes, &checksum, &modifiedAt, &createdAt); err != nil {
		return nil, err
	}
	file.Checksum = checksum.String
	if modifiedAt.Valid {
		t, err := parseTime(modifiedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse source_modified_at: %w", err)
		}
		file.SourceModifiedAt = &t
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	file.CreatedAt = t
	return &file, nil
}
