package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"usethis-backend/internal/config"
	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
	"usethis-backend/internal/storage"
)

type imageStorageService struct {
	itemRepo repository.ItemRepository
	store    storage.ObjectStorage
	maxBytes int
}

func NewImageStorageService(itemRepo repository.ItemRepository, store storage.ObjectStorage, maxFileSizeMB int) ImageStorageService {
	if maxFileSizeMB <= 0 || maxFileSizeMB > config.MaxUploadSizeMB {
		maxFileSizeMB = config.MaxUploadSizeMB
	}
	return &imageStorageService{
		itemRepo: itemRepo,
		store:    store,
		maxBytes: maxFileSizeMB << 20,
	}
}

// UploadItemImage stores the bytes under items/{id}/ and appends the public
// URL to the listing. The object is removed again if the listing update fails.
func (s *imageStorageService) UploadItemImage(ctx context.Context, userID, itemID int32, filename string, data []byte) (string, error) {
	logger.EnterMethod("imageStorageService.UploadItemImage", "userID", userID, "itemID", itemID, "filename", filename, "size", len(data))

	if len(data) == 0 {
		return "", domain.NewValidationError("image", "is required")
	}
	if len(data) > s.maxBytes {
		return "", domain.NewValidationError("image", fmt.Sprintf("must be at most %d MB", s.maxBytes>>20))
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", domain.NewValidationError("image", "must be an image, got "+mt.String())
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return "", domain.Remote("items.get", err)
	}
	if item.OwnerID != userID {
		return "", domain.ErrForbidden
	}

	objectPath := path.Join("items", fmt.Sprint(itemID), uuid.NewString()+mt.Extension())
	if err := s.store.Upload(ctx, objectPath, mt.String(), data); err != nil {
		logger.ExitMethodWithError("imageStorageService.UploadItemImage", err, "reason", "upload")
		return "", domain.Remote("storage.upload", err)
	}

	url := s.store.PublicURL(objectPath)
	if err := s.itemRepo.AppendImage(ctx, itemID, url); err != nil {
		if delErr := s.store.Delete(ctx, objectPath); delErr != nil {
			logger.Warn("Failed to remove orphaned image", "path", objectPath, "error", delErr)
		}
		logger.ExitMethodWithError("imageStorageService.UploadItemImage", err, "reason", "append")
		return "", domain.Remote("items.append_image", err)
	}

	logger.ExitMethod("imageStorageService.UploadItemImage", "url", url)
	return url, nil
}
