package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrUnsupportedImage is returned for files outside the allowed image types.
var ErrUnsupportedImage = errors.New("storage: unsupported image type")

// sniffLen is how many leading bytes are inspected for the content type.
const sniffLen = 3072

// allowedImages maps each accepted extension to the content types a file
// with that extension may actually contain.
var allowedImages = map[string][]string{
	".png":  {"image/png"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".gif":  {"image/gif"},
}

// AllowedImage reports whether filename has an accepted image extension.
func AllowedImage(filename string) bool {
	_, ok := allowedImages[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ImageStore keeps product images on a Disk under one directory. Stored
// names are random UUIDs so uploads never collide.
type ImageStore struct {
	disk Disk
	dir  string
}

// NewImageStore stores images under dir on disk.
func NewImageStore(disk Disk, dir string) *ImageStore {
	return &ImageStore{disk: disk, dir: strings.Trim(dir, "/")}
}

// Save checks the upload's extension and sniffed content type, writes it
// and returns the stored reference name.
func (s *ImageStore) Save(ctx context.Context, r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	accepted, ok := allowedImages[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("storage: read upload: %w", err)
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !mt.Is(accepted[0]) {
		return "", fmt.Errorf("%w: content is %s", ErrUnsupportedImage, mt.String())
	}

	name := uuid.NewString() + ext
	body := io.MultiReader(bytes.NewReader(head), r)
	if err := s.disk.Put(ctx, s.path(name), body, mt.String()); err != nil {
		return "", err
	}
	return name, nil
}

// Open returns the stored image.
func (s *ImageStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, ErrNotExist
	}
	return s.disk.Open(ctx, s.path(name))
}

// Delete removes a stored image. A name that could reach outside the
// image directory gives ErrNotExist.
func (s *ImageStore) Delete(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	if !validName(name) {
		return ErrNotExist
	}
	return s.disk.Delete(ctx, s.path(name))
}

// validName accepts a single path element other than "." and "..".
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// URL returns the public URL of a stored image.
func (s *ImageStore) URL(name string) string {
	return s.disk.URL(s.path(name))
}

func (s *ImageStore) path(name string) string {
	if s.dir == "" {
		return name
	}
	return path.Join(s.dir, name)
}
