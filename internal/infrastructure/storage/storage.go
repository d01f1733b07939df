package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"signflow/internal/config"
)

// FileStore handles document and signature image files on disk.
type FileStore interface {
	// SaveUpload stores an uploaded source document under a unique
	// name and returns its path.
	SaveUpload(originalFilename string, content []byte) (string, error)

	// SaveSignatureImage stores a decoded signature image and returns
	// its path.
	SaveSignatureImage(placementID int64, content []byte) (string, error)

	// SaveComposite stores the composite signed document next to the
	// source and returns its path.
	SaveComposite(originalFilename string, content []byte) (string, error)

	// Read returns the content of a previously stored file.
	Read(path string) ([]byte, error)

	// Remove deletes a stored file. Missing files are not an error.
	Remove(path string) error
}

type fileStore struct {
	config *config.StorageConfig
	logger *zap.Logger
}

func NewFileStore(cfg *config.Config, logger *zap.Logger) (FileStore, error) {
	svc := &fileStore{
		config: &cfg.Storage,
		logger: logger,
	}

	// Ensure all directories exist
	for _, dir := range []string{svc.uploadsPath(), svc.signaturesPath(), svc.signedPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage folder %s: %w", dir, err)
		}
	}

	logger.Info("File store initialized",
		zap.String("uploads", svc.uploadsPath()),
		zap.String("signatures", svc.signaturesPath()),
		zap.String("signed", svc.signedPath()),
	)

	return svc, nil
}

func (s *fileStore) uploadsPath() string {
	return filepath.Join(s.config.BasePath, s.config.UploadsFolder)
}

func (s *fileStore) signaturesPath() string {
	return filepath.Join(s.config.BasePath, s.config.SignaturesFolder)
}

func (s *fileStore) signedPath() string {
	return filepath.Join(s.config.BasePath, s.config.SignedFolder)
}

func (s *fileStore) SaveUpload(originalFilename string, content []byte) (string, error) {
	ext := filepath.Ext(originalFilename)
	path := filepath.Join(s.uploadsPath(), uuid.NewString()+ext)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	s.logger.Info("Upload saved",
		zap.String("path", path),
		zap.Int("size_bytes", len(content)),
	)

	return path, nil
}

func (s *fileStore) SaveSignatureImage(placementID int64, content []byte) (string, error) {
	filename := fmt.Sprintf("signature_%d_%s.png", placementID, uuid.NewString())
	path := filepath.Join(s.signaturesPath(), filename)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to save signature image: %w", err)
	}

	return path, nil
}

func (s *fileStore) SaveComposite(originalFilename string, content []byte) (string, error) {
	base := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	filename := fmt.Sprintf("%s_signed_%s.pdf", base, uuid.NewString())
	path := filepath.Join(s.signedPath(), filename)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to save composite document: %w", err)
	}

	s.logger.Info("Composite document saved",
		zap.String("path", path),
		zap.Int("size_bytes", len(content)),
	)

	return path, nil
}

func (s *fileStore) Read(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return content, nil
}

func (s *fileStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file %s: %w", path, err)
	}
	return nil
}
