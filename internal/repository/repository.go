package repository

import (
	"context"
	"time"

	"usethis-backend/internal/domain"
)

// Implementations return domain.ErrNotFound when a single-row lookup
// matches nothing. Every other error is a raw driver error.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	// GetByID expands the owner.
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	SetAvailability(ctx context.Context, id int32, available bool) error
	AppendImage(ctx context.Context, id int32, url string) error
	Delete(ctx context.Context, id int32) error
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Item, int32, error)
	Search(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, int32, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	// GetByID expands item, renter and owner.
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByItem(ctx context.Context, itemID int32) ([]domain.Review, error)
	ListByReviewee(ctx context.Context, userID int32) ([]domain.Review, error)
	AverageForItem(ctx context.Context, itemID int32) (float64, int32, error)
}

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	GetByID(ctx context.Context, id int32) (*domain.Inquiry, error)
	UpdateStatus(ctx context.Context, id int32, status domain.InquiryStatus, conversationID *int32) error
	ListByOwner(ctx context.Context, ownerID int32, status string) ([]domain.Inquiry, error)
	ListByInquirer(ctx context.Context, inquirerID int32) ([]domain.Inquiry, error)
}

type ConversationRepository interface {
	// FindByParticipants matches the unordered pair and item (nil item
	// matches only item-less conversations).
	FindByParticipants(ctx context.Context, userA, userB int32, itemID *int32) (*domain.Conversation, error)
	// Create inserts the conversation. When the (pair, item) row already
	// exists it loads that row into conv instead of failing.
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id int32) (*domain.Conversation, error)
	// ListByUser orders by last activity, newest first, with the caller's
	// unread count and the latest message filled in.
	ListByUser(ctx context.Context, userID int32) ([]domain.Conversation, error)
	Touch(ctx context.Context, id int32, at time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByConversation(ctx context.Context, conversationID int32, limit, offset int32) ([]domain.Message, error)
	// MarkRead flags every message in the conversation not sent by readerID.
	MarkRead(ctx context.Context, conversationID, readerID int32) (int64, error)
	ListUnreadDigests(ctx context.Context) ([]domain.UnreadDigest, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
