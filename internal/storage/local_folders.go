package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const tmpDirName = ".tmp"

// LocalFolders stores each imported file in its own folder under root:
// <root>/<folder>/<filename>.
type LocalFolders struct {
	root string
}

// NewLocalFolders creates managed storage rooted at root.
func NewLocalFolders(root string) (*LocalFolders, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("managed folder root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, tmpDirName), 0o755); err != nil {
		return nil, err
	}
	return &LocalFolders{root: abs}, nil
}

// Root returns the absolute managed folder root.
func (l *LocalFolders) Root() string {
	return l.root
}

// Put streams r into <root>/<folder>/<filename>, computing size and a
// blake2b-256 checksum on the way. The file only appears at its final
// location once fully written.
func (l *LocalFolders) Put(ctx context.Context, folder, filename string, r io.Reader) (PutResult, error) {
	var zero PutResult
	if l == nil {
		return zero, fmt.Errorf("managed storage is not configured")
	}
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	dir, err := l.folderPath(folder)
	if err != nil {
		return zero, err
	}
	if err := validateName("filename", filename); err != nil {
		return zero, err
	}

	tmp, err := os.CreateTemp(filepath.Join(l.root, tmpDirName), "put-*")
	if err != nil {
		return zero, err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		cleanup()
		return zero, err
	}
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		cleanup()
		return zero, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return zero, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		cleanup()
		return zero, err
	}
	dst := filepath.Join(dir, filename)
	if err := os.Rename(tmpPath, dst); err != nil {
		cleanup()
		return zero, err
	}

	return PutResult{
		Folder:    folder,
		Filename:  filename,
		SizeBytes: n,
		Checksum:  hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Open returns a reader for a stored file.
func (l *LocalFolders) Open(ctx context.Context, folder, filename string) (io.ReadCloser, error) {
	if l == nil {
		return nil, fmt.Errorf("managed storage is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := l.folderPath(folder)
	if err != nil {
		return nil, err
	}
	if err := validateName("filename", filename); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(dir, filename))
}

// Exists reports whether a folder is already present under root.
func (l *LocalFolders) Exists(ctx context.Context, folder string) (bool, error) {
	if l == nil {
		return false, fmt.Errorf("managed storage is not configured")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	dir, err := l.folderPath(folder)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes a folder and everything in it. Missing folders are ignored.
func (l *LocalFolders) Remove(ctx context.Context, folder string) error {
	if l == nil {
		return fmt.Errorf("managed storage is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := l.folderPath(folder)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

func (l *LocalFolders) folderPath(folder string) (string, error) {
	if err := validateName("folder", folder); err != nil {
		return "", err
	}
	if folder == tmpDirName {
		return "", fmt.Errorf("folder %q is reserved", folder)
	}
	return filepath.Join(l.root, folder), nil
}

// validateName accepts a single path element only.
func validateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s is required", kind)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("invalid %s %q", kind, name)
	}
	return nil
}

var _ Storage = (*LocalFolders)(nil)
