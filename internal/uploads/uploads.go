// Package uploads manages the directory holding cocktail images.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PublicPrefix is the URL path under which stored files are served.
const PublicPrefix = "/uploads/"

// DefaultMaxBytes is the upload cap used when none is configured.
const DefaultMaxBytes int64 = 5 << 20

var (
	ErrNotImage = errors.New("only image uploads are allowed")
	ErrTooLarge = errors.New("image exceeds the upload size limit")
)

// Store writes uploads into a single managed directory.
type Store struct {
	dir      string
	maxBytes int64
}

// New prepares the upload directory, creating it when missing.
func New(dir string, maxBytes int64) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("uploads: directory must not be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("uploads: resolve directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create directory: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{dir: abs, maxBytes: maxBytes}, nil
}

// Dir returns the absolute upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// MaxBytes returns the per-file size cap.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates an uploaded image and stores it under a generated name.
// The returned value is the public path recorded on the cocktail row.
func (s *Store) Save(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", errors.New("uploads: missing file header")
	}
	if !strings.HasPrefix(strings.ToLower(header.Header.Get("Content-Type")), "image/") {
		return "", ErrNotImage
	}
	if header.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("uploads: open upload: %w", err)
	}
	defer src.Close()

	return s.write(src)
}

func (s *Store) write(src io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("uploads: read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") || detected.Is("image/svg+xml") {
		return "", ErrNotImage
	}

	name := uuid.NewString() + extensionFor(detected.Extension())

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("uploads: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("uploads: write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("uploads: close file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("uploads: chmod file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("uploads: move file into place: %w", err)
	}

	return PublicPrefix + name, nil
}

// Remove deletes the file behind a public path. Missing files and empty
// paths are ignored. Only the base name is used, so nothing outside the
// managed directory can be touched.
func (s *Store) Remove(publicPath string) error {
	target, ok := s.Path(publicPath)
	if !ok {
		return nil
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("uploads: remove %s: %w", filepath.Base(target), err)
	}
	return nil
}

// Path maps a public path to its location on disk. Absolute URLs point at
// images hosted elsewhere and are never mapped.
func (s *Store) Path(publicPath string) (string, bool) {
	publicPath = strings.TrimSpace(publicPath)
	if publicPath == "" || strings.HasSuffix(publicPath, "/") || strings.Contains(publicPath, "://") {
		return "", false
	}
	name := filepath.Base(filepath.FromSlash(publicPath))
	if name == "." || name == ".." || name == string(filepath.Separator) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

// extensionFor names files after their sniffed type so the file server never
// answers with a content type the client chose.
// Exists reports whether a public path names a stored regular file.
func (s *Store) Exists(publicPath string) bool {
	target, ok := s.Path(publicPath)
	if !ok {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && info.Mode().IsRegular()
}

func extensionFor(detected string) string {
	if detected != "" {
		return strings.ToLower(detected)
	}
	return ".jpg"
}
