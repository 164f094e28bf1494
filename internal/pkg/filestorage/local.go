package filestorage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/theclubs/clubs-backend/internal/pkg/logger"
)

// FileStorage stores generated assets and hands back a public URL for them.
type FileStorage interface {
	// Save writes r under subPath with a fresh name ending in ext.
	Save(r io.Reader, subPath, ext string) (string, error)

	// Delete removes the file behind a URL returned by Save.
	Delete(fileURL string) error
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory on disk
	baseURL  string // public prefix the router serves basePath under
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath if needed.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save streams r into basePath/subPath/<uuid><ext>.
func (ls *LocalStorage) Save(r io.Reader, subPath, ext string) (string, error) {
	subPath = strings.Trim(filepath.ToSlash(subPath), "/")
	if strings.Contains(subPath, "..") {
		return "", fmt.Errorf("invalid storage path: %s", subPath)
	}

	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.NewString() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	url := ls.baseURL + "/" + path.Join(subPath, name)
	logger.Debug().Str("saved_as", dstPath).Str("url", url).Msg("File saved successfully")
	return url, nil
}

// Delete removes a file previously returned by Save. Missing files are not an error.
func (ls *LocalStorage) Delete(fileURL string) error {
	full := ls.fullPath(fileURL)
	if full == "" {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", full).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", full).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// fullPath maps a public URL back onto basePath.
func (ls *LocalStorage) fullPath(fileURL string) string {
	rel := strings.TrimPrefix(fileURL, ls.baseURL)
	rel = strings.Trim(rel, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel))
}
