package storage

import (
	"context"
	"io"
)

// PutResult describes one file persisted into managed storage.
type PutResult struct {
	Folder    string
	Filename  string
	SizeBytes int64
	Checksum  string
}

// Storage is the managed file tree used by the importer.
type Storage interface {
	Put(ctx context.Context, folder, filename string, r io.Reader) (PutResult, error)
	Open(ctx context.Context, folder, filename string) (io.ReadCloser, error)
	Exists(ctx context.Context, folder string) (bool, error)
	Remove(ctx context.Context, folder string) error
}
