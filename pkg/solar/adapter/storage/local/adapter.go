// Package local provides a local file system implementation of storage.Store.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tigerroll/solarsink/pkg/solar/adapter/storage"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

// ProviderType defines the type identifier for this store.
const ProviderType = "local"

// Store implements storage.Store on the local file system.
// Directories are resolved against BaseDir; an empty BaseDir uses them as given.
type Store struct {
	baseDir string
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Type returns "local".
func (s *Store) Type() string {
	return ProviderType
}

// Upload writes data to dir/objectName, creating the directory if it does not exist.
func (s *Store) Upload(ctx context.Context, dir, objectName string, data io.Reader, contentType string) error {
	fullPath, err := s.resolvePath(dir, objectName)
	if err != nil {
		return fmt.Errorf("failed to resolve path for upload: %w", err)
	}

	parent := filepath.Dir(fullPath)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", parent, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", fullPath, err)
	}

	if _, err := io.Copy(file, data); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write data to file '%s': %w", fullPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file '%s': %w", fullPath, err)
	}
	logger.Debugf("Wrote %s object '%s'.", contentType, fullPath)
	return nil
}

// Download opens dir/objectName for reading.
func (s *Store) Download(ctx context.Context, dir, objectName string) (io.ReadCloser, error) {
	fullPath, err := s.resolvePath(dir, objectName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path for download: %w", err)
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file '%s': %w", fullPath, err)
	}
	logger.Debugf("Opened object '%s'.", fullPath)
	return file, nil
}

// Path returns the file path dir/objectName resolves to.
func (s *Store) Path(dir, objectName string) (string, error) {
	return s.resolvePath(dir, objectName)
}

// resolvePath joins baseDir, dir and objectName and rejects object names that escape dir.
func (s *Store) resolvePath(dir, objectName string) (string, error) {
	if objectName == "" {
		return "", fmt.Errorf("object name is empty")
	}

	root := dir
	if s.baseDir != "" {
		root = filepath.Join(s.baseDir, dir)
	}
	fullPath := filepath.Join(root, objectName)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", root, err)
	}
	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", fullPath, err)
	}

	if !strings.HasPrefix(absFullPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("resolved path '%s' is outside of '%s'", fullPath, root)
	}
	return fullPath, nil
}
