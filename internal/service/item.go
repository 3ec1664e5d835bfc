package service

import (
	"context"
	"strings"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type itemService struct {
	itemRepo repository.ItemRepository
}

func NewItemService(itemRepo repository.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

func normalizeItem(item *domain.Item) {
	item.Title = strings.TrimSpace(item.Title)
	item.Category = strings.TrimSpace(item.Category)
	item.Location = strings.TrimSpace(item.Location)
	if item.ImageURLs == nil {
		item.ImageURLs = []string{}
	}
}

func (s *itemService) CreateItem(ctx context.Context, ownerID int32, item *domain.Item) (*domain.Item, error) {
	logger.EnterMethod("itemService.CreateItem", "ownerID", ownerID, "title", item.Title)
	normalizeItem(item)
	if err := item.ValidateListing(); err != nil {
		logger.ExitMethodWithError("itemService.CreateItem", err, "reason", "validation")
		return nil, err
	}
	item.OwnerID = ownerID
	item.IsAvailable = true
	if err := s.itemRepo.Create(ctx, item); err != nil {
		logger.ExitMethodWithError("itemService.CreateItem", err)
		return nil, domain.Remote("items.create", err)
	}
	logger.ExitMethod("itemService.CreateItem", "itemID", item.ID)
	return item, nil
}

func (s *itemService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Remote("items.get", err)
	}
	return item, nil
}

// ownedItem loads an item and checks the caller owns it.
func (s *itemService) ownedItem(ctx context.Context, userID, itemID int32) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, domain.Remote("items.get", err)
	}
	if item.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// UpdateItem edits the listing fields. Ownership, availability and images
// are carried over from the stored item.
func (s *itemService) UpdateItem(ctx context.Context, userID, itemID int32, upd domain.ItemUpdate) (*domain.Item, error) {
	current, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	item := *current
	upd.Apply(&item)
	normalizeItem(&item)
	if err := item.ValidateListing(); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, &item); err != nil {
		return nil, domain.Remote("items.update", err)
	}
	return &item, nil
}

func (s *itemService) ToggleAvailability(ctx context.Context, userID, itemID int32) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	item.IsAvailable = !item.IsAvailable
	if err := s.itemRepo.SetAvailability(ctx, itemID, item.IsAvailable); err != nil {
		return nil, domain.Remote("items.availability", err)
	}
	return item, nil
}

// ArchiveItem is the soft removal: the listing stays but cannot be booked.
func (s *itemService) ArchiveItem(ctx context.Context, userID, itemID int32) error {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	if err := s.itemRepo.SetAvailability(ctx, itemID, false); err != nil {
		return domain.Remote("items.archive", err)
	}
	return nil
}

func (s *itemService) DeleteItem(ctx context.Context, userID, itemID int32) error {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return domain.Remote("items.delete", err)
	}
	logger.Info("Item deleted", "itemID", itemID, "ownerID", userID)
	return nil
}

func (s *itemService) ListMyItems(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	items, total, err := s.itemRepo.ListByOwner(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, domain.Remote("items.list", err)
	}
	return items, total, nil
}

func (s *itemService) SearchItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, int32, error) {
	if filter.MaxPrice < 0 {
		return nil, 0, domain.NewValidationError("max_price", "must not be negative")
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	items, total, err := s.itemRepo.Search(ctx, filter)
	if err != nil {
		return nil, 0, domain.Remote("items.search", err)
	}
	return items, total, nil
}

func (s *itemService) ListCategories(ctx context.Context) []string {
	return append([]string(nil), domain.ItemCategories...)
}
