package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"usethis-backend/internal/logger"
)

// LocalStorage keeps objects on the local filesystem and serves them
// under baseURL. Used for development and tests.
type LocalStorage struct {
	baseURL string
	rootDir string
}

func NewLocalStorage(baseURL, rootDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{baseURL: strings.TrimRight(baseURL, "/"), rootDir: rootDir}, nil
}

func (s *LocalStorage) fullPath(objectPath string) (string, error) {
	p, err := cleanPath(objectPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.rootDir, filepath.FromSlash(p)), nil
}

func (s *LocalStorage) Upload(_ context.Context, objectPath, contentType string, data []byte) error {
	logger.ExternalServiceCall("local-storage", "Upload", "path", objectPath, "contentType", contentType, "size", len(data))
	full, err := s.fullPath(objectPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	err = os.WriteFile(full, data, 0644)
	logger.ExternalServiceResult("local-storage", "Upload", err, "path", objectPath)
	return err
}

func (s *LocalStorage) Delete(_ context.Context, objectPath string) error {
	full, err := s.fullPath(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) PublicURL(objectPath string) string {
	return s.baseURL + "/" + strings.TrimLeft(objectPath, "/")
}

// RegisterRoutes serves stored files read-only under prefix (e.g. "/files/").
func (s *LocalStorage) RegisterRoutes(r *mux.Router, prefix string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(s.rootDir)))
	r.PathPrefix(prefix).Methods(http.MethodGet, http.MethodHead).Handler(fs)
}
