package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrBlobNotFound is returned when a stored object does not exist
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists attachment content. Keys are slash-separated paths,
// e.g. "todos/42/<uuid>-report.pdf".
type BlobStore interface {
	Put(ctx context.Context, key string, content io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// FilesystemBlobStore stores attachments under a root directory
type FilesystemBlobStore struct {
	rootDir string
}

// NewFilesystemBlobStore creates a filesystem-backed blob store
func NewFilesystemBlobStore(rootDir string) (*FilesystemBlobStore, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}
	return &FilesystemBlobStore{rootDir: rootDir}, nil
}

// path resolves a key under the root, rejecting traversal outside it
func (s *FilesystemBlobStore) path(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid blob key: %s", key)
	}
	return filepath.Join(s.rootDir, cleaned), nil
}

// Put writes the content to disk, creating parent directories as needed
func (s *FilesystemBlobStore) Put(_ context.Context, key string, content io.Reader) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

// Get opens the stored content for streaming
func (s *FilesystemBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}

// Delete removes the stored content; deleting a missing blob is not an
// error.
func (s *FilesystemBlobStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// NewBlobStore selects the attachment backend from config
func NewBlobStore(cfg Config) (BlobStore, error) {
	switch cfg.AttachmentBackend {
	case BackendFilesystem, "":
		return NewFilesystemBlobStore(cfg.FilesystemRoot)
	case BackendS3:
		return NewS3BlobStore(cfg)
	default:
		return nil, fmt.Errorf("unknown attachment backend: %s", cfg.AttachmentBackend)
	}
}
