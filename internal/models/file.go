package models

import "time"

// File is one imported file living in managed storage.
//
// Path is the generated storage-relative folder identifier, not the original
// filename; Name keeps the original filename for display.
type File struct {
	ID               int64      `json:"id"`
	Path             string     `json:"path"`
	Name             string     `json:"name"`
	SizeBytes        int64      `json:"size_bytes"`
	Checksum         string     `json:"checksum,omitempty"`
	SourceModifiedAt *time.Time `json:"source_modified_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ValueRef addresses a category value by names.
type ValueRef struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

// FileDetail is a file with its associations resolved to names.
type FileDetail struct {
	File   File       `json:"file"`
	Tags   []string   `json:"tags"`
	Values []ValueRef `json:"values"`
}
