// Package storage is a small filesystem abstraction with a local and an
// S3-compatible driver, plus the product image store built on it.
//
//	disk, err := storage.New(ctx, cfg.Storage)
//	images := storage.NewImageStore(disk, "images")
//	name, err := images.Save(ctx, upload, header.Filename)
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned when a path is absent.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is the filesystem driver interface. Paths are slash-separated and
// relative to the disk root.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Open returns a reader for the file. The caller closes it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
