package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"usethis-backend/internal/config"
)

var ErrInvalidPath = errors.New("invalid object path")

// ObjectStorage stores uploaded images and hands out their public URLs.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) error
	Delete(ctx context.Context, objectPath string) error
	PublicURL(objectPath string) string
}

// New builds the backend named by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Type {
	case "firebase":
		return NewFirebaseStorage(ctx, cfg.Bucket, cfg.CredentialsFile)
	case "local", "":
		return NewLocalStorage(cfg.BaseURL, cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// cleanPath rejects absolute paths and anything escaping the root.
func cleanPath(objectPath string) (string, error) {
	if objectPath == "" || strings.HasPrefix(objectPath, "/") {
		return "", ErrInvalidPath
	}
	p := path.Clean(objectPath)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", ErrInvalidPath
	}
	return p, nil
}
