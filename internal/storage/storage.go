package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidName = errors.New("invalid blob name")

// DiskStore stores uploaded images as flat files under a single directory.
// Stored names are generated server-side, so the original filename only
// contributes its extension.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a store over it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory backing the store, for static file serving.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes the blob to disk under a generated name and returns that name.
func (s *DiskStore) Save(src io.Reader, originalName string) (string, error) {
	name := uuid.NewString() + safeExt(originalName)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating blob: %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing blob: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing blob: %w", err)
	}

	return name, nil
}

// Delete removes a stored blob. A missing blob is not an error: the caller's
// state already reflects the deletion.
func (s *DiskStore) Delete(name string) error {
	if name == "" {
		return nil
	}
	if name != filepath.Base(name) {
		return ErrInvalidName
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("blob already absent", "name", name)
			return nil
		}
		return fmt.Errorf("removing blob: %w", err)
	}

	return nil
}

// safeExt extracts a usable lowercase extension from a client filename,
// or nothing when the extension is suspect.
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if ext == "." || strings.ContainsAny(ext, `/\`) || len(ext) > 10 {
		return ""
	}
	return ext
}
