package service

import (
	"context"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/security"
	"usethis-backend/internal/session"
	"usethis-backend/internal/utils"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*domain.User, *security.TokenPair, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, *security.TokenPair, error)
	SignOut(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*security.TokenPair, error)
	// Authenticate validates a token of the given type and opens a session for it.
	Authenticate(ctx context.Context, token string, typ security.TokenType) (*session.Session, error)
	GetUser(ctx context.Context, userID int32) (*domain.User, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int32, item *domain.Item) (*domain.Item, error)
	GetItem(ctx context.Context, id int32) (*domain.Item, error)
	UpdateItem(ctx context.Context, userID, itemID int32, upd domain.ItemUpdate) (*domain.Item, error)
	ToggleAvailability(ctx context.Context, userID, itemID int32) (*domain.Item, error)
	ArchiveItem(ctx context.Context, userID, itemID int32) error
	DeleteItem(ctx context.Context, userID, itemID int32) error
	ListMyItems(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Item, int32, error)
	SearchItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, int32, error)
	ListCategories(ctx context.Context) []string
}

type BookingService interface {
	Quote(ctx context.Context, itemID int32, startDate, endDate string) (*utils.Quote, error)
	CreateBooking(ctx context.Context, renterID, itemID int32, startDate, endDate string) (*domain.Booking, error)
	Transition(ctx context.Context, actorID, bookingID int32, action domain.BookingAction) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID int32, role domain.ActorRole, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

// ItemRating summarises an item's reviews.
type ItemRating struct {
	Average float64 `json:"average"`
	Count   int32   `json:"count"`
}

type ReviewService interface {
	SubmitReview(ctx context.Context, reviewerID, bookingID int32, target domain.ReviewTarget, rating int, comment string) (*domain.Review, error)
	ListItemReviews(ctx context.Context, itemID int32) ([]domain.Review, *ItemRating, error)
	ListUserReviews(ctx context.Context, userID int32) ([]domain.Review, error)
}

type InquiryService interface {
	CreateInquiry(ctx context.Context, inquirerID, itemID int32, subject, message string) (*domain.Inquiry, error)
	// Reply answers through a conversation and marks the inquiry responded.
	Reply(ctx context.Context, ownerID, inquiryID int32, text string) (*domain.Inquiry, error)
	Dismiss(ctx context.Context, ownerID, inquiryID int32) (*domain.Inquiry, error)
	ListReceived(ctx context.Context, ownerID int32, status string) ([]domain.Inquiry, error)
	ListSent(ctx context.Context, inquirerID int32) ([]domain.Inquiry, error)
}

type ConversationService interface {
	// StartConversation finds or creates the thread for the unordered pair
	// and item, seeding a new thread with an inquiry-type message.
	StartConversation(ctx context.Context, currentUserID, counterpartID int32, itemID *int32, seedText string) (int32, error)
	ListConversations(ctx context.Context, userID int32) ([]domain.Conversation, error)
	// OpenConversation returns the messages and marks the counterpart's as read.
	OpenConversation(ctx context.Context, userID, conversationID int32, limit, offset int32) ([]domain.Message, error)
	SendMessage(ctx context.Context, senderID, conversationID int32, content string, msgType domain.MessageType) (*domain.Message, error)
}

type ImageStorageService interface {
	UploadItemImage(ctx context.Context, userID, itemID int32, filename string, data []byte) (string, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingRequested(ctx context.Context, ownerEmail, ownerName, renterName, itemTitle, startDate, endDate, total string) error
	SendBookingStatusChanged(ctx context.Context, email, name, itemTitle string, status domain.BookingStatus) error
	SendInquiryReceived(ctx context.Context, ownerEmail, ownerName, inquirerName, itemTitle, subject string) error
	SendUnreadDigest(ctx context.Context, email, name string, unread, conversations int32) error
}
