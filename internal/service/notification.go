package service

import (
	"context"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	list, count, err := s.noteRepo.List(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, 0, domain.Remote("notifications.list", err)
	}
	return list, count, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return domain.Remote("notifications.mark_read", s.noteRepo.MarkAsRead(ctx, notificationID, userID))
}
