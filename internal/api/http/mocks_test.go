package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/security"
	"usethis-backend/internal/session"
	"usethis-backend/internal/utils"
)

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password, name string) (*domain.User, *security.TokenPair, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*security.TokenPair), args.Error(2)
}
func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*domain.User, *security.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*security.TokenPair), args.Error(2)
}
func (m *MockAuthService) SignOut(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*security.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.TokenPair), args.Error(1)
}
func (m *MockAuthService) Authenticate(ctx context.Context, token string, typ security.TokenType) (*session.Session, error) {
	args := m.Called(ctx, token, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}
func (m *MockAuthService) GetUser(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockItemService
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) CreateItem(ctx context.Context, ownerID int32, item *domain.Item) (*domain.Item, error) {
	args := m.Called(ctx, ownerID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemService) UpdateItem(ctx context.Context, userID, itemID int32, upd domain.ItemUpdate) (*domain.Item, error) {
	args := m.Called(ctx, userID, itemID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemService) ToggleAvailability(ctx context.Context, userID, itemID int32) (*domain.Item, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemService) ArchiveItem(ctx context.Context, userID, itemID int32) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
func (m *MockItemService) DeleteItem(ctx context.Context, userID, itemID int32) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
func (m *MockItemService) ListMyItems(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Item), args.Get(1).(int32), args.Error(2)
}
func (m *MockItemService) SearchItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Item), args.Get(1).(int32), args.Error(2)
}
func (m *MockItemService) ListCategories(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Quote(ctx context.Context, itemID int32, startDate, endDate string) (*utils.Quote, error) {
	args := m.Called(ctx, itemID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.Quote), args.Error(1)
}
func (m *MockBookingService) CreateBooking(ctx context.Context, renterID, itemID int32, startDate, endDate string) (*domain.Booking, error) {
	args := m.Called(ctx, renterID, itemID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) Transition(ctx context.Context, actorID, bookingID int32, action domain.BookingAction) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, bookingID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListBookings(ctx context.Context, userID int32, role domain.ActorRole, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, userID, role, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

// MockInquiryService
type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) CreateInquiry(ctx context.Context, inquirerID, itemID int32, subject, message string) (*domain.Inquiry, error) {
	args := m.Called(ctx, inquirerID, itemID, subject, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inquiry), args.Error(1)
}
func (m *MockInquiryService) Reply(ctx context.Context, ownerID, inquiryID int32, text string) (*domain.Inquiry, error) {
	args := m.Called(ctx, ownerID, inquiryID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inquiry), args.Error(1)
}
func (m *MockInquiryService) Dismiss(ctx context.Context, ownerID, inquiryID int32) (*domain.Inquiry, error) {
	args := m.Called(ctx, ownerID, inquiryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inquiry), args.Error(1)
}
func (m *MockInquiryService) ListReceived(ctx context.Context, ownerID int32, status string) ([]domain.Inquiry, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Get(0).([]domain.Inquiry), args.Error(1)
}
func (m *MockInquiryService) ListSent(ctx context.Context, inquirerID int32) ([]domain.Inquiry, error) {
	args := m.Called(ctx, inquirerID)
	return args.Get(0).([]domain.Inquiry), args.Error(1)
}

// MockImageService
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadItemImage(ctx context.Context, userID, itemID int32, filename string, data []byte) (string, error) {
	args := m.Called(ctx, userID, itemID, filename, data)
	return args.String(0), args.Error(1)
}
