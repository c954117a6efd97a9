package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fileshelf/internal/models"
)

// ListTags returns all tag names ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT name FROM tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

// InsertTag adds a tag. An existing name fails with ErrDuplicateKey.
func (s *Store) InsertTag(ctx context.Context, name string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name)
	return classifyWriteError(err)
}

// DeleteTag removes a tag by name; file associations cascade. Deleting a
// missing tag is not an error.
func (s *Store) DeleteTag(ctx context.Context, name string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "DELETE FROM tags WHERE name = ?", name)
	return err
}

// ListCategories returns all categories ordered by name, without values.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListCategoriesWithValues returns all categories with their values populated.
func (s *Store) ListCategoriesWithValues(ctx context.Context) ([]models.Category, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		values, err := s.ListCategoryValues(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].Values = values
	}
	return categories, nil
}

// InsertCategory adds a category and returns its id.
func (s *Store) InsertCategory(ctx context.Context, name string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return 0, classifyWriteError(err)
	}
	return res.LastInsertId()
}

// CategoryID resolves a category name to its id.
func (s *Store) CategoryID(ctx context.Context, name string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	return categoryID(ctx, db, name)
}

func categoryID(ctx context.Context, q querier, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, "SELECT id FROM categories WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, referenceNotFound("category", name)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteCategory removes a category by id; its values and their file
// associations cascade.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	return err
}

// ListCategoryValues returns the values of a category ordered by value.
func (s *Store) ListCategoryValues(ctx context.Context, categoryID int64) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		"SELECT value FROM category_values WHERE category_id = ? ORDER BY value", categoryID)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

// InsertCategoryValue adds a value under a category. An unknown category
// fails with ErrReferenceNotFound, an existing value with ErrDuplicateKey.
func (s *Store) InsertCategoryValue(ctx context.Context, categoryID int64, value string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO category_values (category_id, value) VALUES (?, ?)", categoryID, value)
	if err != nil {
		err = classifyWriteError(err)
		if errors.Is(err, ErrReferenceNotFound) {
			return fmt.Errorf("%w: category id %d", ErrReferenceNotFound, categoryID)
		}
		return err
	}
	return nil
}

// DeleteCategoryValue removes one value of a category; file associations
// cascade. Deleting a missing value is not an error.
func (s *Store) DeleteCategoryValue(ctx context.Context, categoryID int64, value string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"DELETE FROM category_values WHERE category_id = ? AND value = ?", categoryID, value)
	return err
}
