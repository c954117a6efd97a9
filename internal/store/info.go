package store

import "context"

// Info summarizes the catalog database.
type Info struct {
	Path           string `json:"path"`
	SchemaVersion  int    `json:"schema_version"`
	Files          int    `json:"files"`
	Tags           int    `json:"tags"`
	Categories     int    `json:"categories"`
	CategoryValues int    `json:"category_values"`
}

// Info returns row counts and the schema version.
func (s *Store) Info(ctx context.Context) (*Info, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	info := &Info{Path: s.path}
	if info.SchemaVersion, err = s.SchemaVersion(ctx); err != nil {
		return nil, err
	}

	counts := []struct {
		table string
		dst   *int
	}{
		{"files", &info.Files},
		{"tags", &info.Tags},
		{"categories", &info.Categories},
		{"category_values", &info.CategoryValues},
	}
	for _, c := range counts {
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return nil, err
		}
	}
	return info, nil
}
