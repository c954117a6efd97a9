package api

import "fileshelf/internal/models"

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// InfoResponse describes the server's catalog state.
type InfoResponse struct {
	DBPath         string `json:"db_path"`
	CatalogPath    string `json:"catalog_path"`
	Configured     bool   `json:"configured"`
	Folder         string `json:"folder,omitempty"`
	StoreOpen      bool   `json:"store_open"`
	SchemaVersion  int    `json:"schema_version"`
	Files          int    `json:"files"`
	Tags           int    `json:"tags"`
	Categories     int    `json:"categories"`
	CategoryValues int    `json:"category_values"`
}

// SnapshotResponse is the result of storing a snapshot.
type SnapshotResponse struct {
	TagsInserted       int      `json:"tags_inserted"`
	TagsDeleted        int      `json:"tags_deleted"`
	CategoriesInserted int      `json:"categories_inserted"`
	CategoriesDeleted  int      `json:"categories_deleted"`
	ValuesInserted     int      `json:"values_inserted"`
	ValuesDeleted      int      `json:"values_deleted"`
	Warnings           []string `json:"warnings"`
}

// ImportRequest defines the payload for importing one file. SourcePath is
// read by the server process.
type ImportRequest struct {
	SourcePath string            `json:"source_path"`
	Tags       []string          `json:"tags,omitempty"`
	Values     map[string]string `json:"values,omitempty"`
}

// ImportResponse is the stored file.
type ImportResponse = models.File

// FileResponse is a stored file with its associations.
type FileResponse = models.FileDetail
