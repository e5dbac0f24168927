// File: internal/filestorage/local.go
package filestorage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalStore keeps images on the local disk and serves them from publicBaseURL.
type LocalStore struct {
	root          string
	publicBaseURL string
	logger        *zap.Logger
}

// NewLocalStore creates the storage root if needed.
func NewLocalStore(root, publicBaseURL string, logger *zap.Logger) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage path %s: %w", root, err)
	}
	logger.Info("Local image store initialized", zap.String("storagePath", root))
	return &LocalStore{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Root is the directory images are written under.
func (s *LocalStore) Root() string { return s.root }

// Store writes data to folder/<uuid><ext>. The reference is that relative path.
func (s *LocalStore) Store(_ context.Context, folder string, data []byte) (string, string, error) {
	img, err := DetectImage(data)
	if err != nil {
		return "", "", err
	}
	cleanFolder, err := s.cleanRelative(folder)
	if err != nil {
		return "", "", err
	}

	dir := filepath.Join(s.root, cleanFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	ref := filepath.ToSlash(filepath.Join(cleanFolder, uuid.NewString()+img.Extension))
	dest := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := os.WriteFile(dest, img.Data, 0o644); err != nil {
		_ = os.Remove(dest)
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	s.logger.Debug("Image stored", zap.String("ref", ref))
	return s.publicBaseURL + "/" + ref, ref, nil
}

// Delete removes the file at ref. A missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	cleanRef, err := s.cleanRelative(ref)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, cleanRef))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file %s: %w", cleanRef, err)
	}
	return nil
}

func (s *LocalStore) cleanRelative(p string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(p))
	if p == "" || clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage path %q", p)
	}
	return clean, nil
}
