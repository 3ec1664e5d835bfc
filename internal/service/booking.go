package service

import (
	"context"
	"fmt"
	"strings"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
	"usethis-backend/internal/utils"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
	}
}

func (s *bookingService) Quote(ctx context.Context, itemID int32, startDate, endDate string) (*utils.Quote, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, domain.Remote("items.get", err)
	}
	q, err := utils.ComputeQuoteFromStrings(startDate, endDate, item.PricePerDay)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateBooking always yields a pending booking inside the item's
// availability window. Overlapping requests on the same item are not
// detected.
func (s *bookingService) CreateBooking(ctx context.Context, renterID, itemID int32, startDate, endDate string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "renterID", renterID, "itemID", itemID, "start", startDate, "end", endDate)

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "reason", "item lookup")
		return nil, domain.Remote("items.get", err)
	}
	if item.OwnerID == renterID {
		return nil, domain.NewValidationError("item_id", "you cannot book your own item")
	}
	if !item.IsAvailable {
		return nil, domain.NewValidationError("item_id", "item is not available for booking")
	}

	quote, err := utils.ComputeQuoteFromStrings(startDate, endDate, item.PricePerDay)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "reason", "quote")
		return nil, err
	}
	if err := item.CheckWindow(startDate, endDate); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "reason", "availability window")
		return nil, err
	}

	booking := &domain.Booking{
		ItemID:     itemID,
		RenterID:   renterID,
		OwnerID:    item.OwnerID,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalPrice: quote.Total,
		Status:     domain.BookingStatusPending,
		Item:       item,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, domain.Remote("bookings.create", err)
	}

	// Notify owner. Failures here never undo the booking.
	owner, _ := s.userRepo.GetByID(ctx, item.OwnerID)
	renter, _ := s.userRepo.GetByID(ctx, renterID)
	if owner != nil && renter != nil {
		booking.Owner, booking.Renter = owner, renter
		_ = s.emailSvc.SendBookingRequested(ctx, owner.Email, owner.Name, renter.Name, item.Title,
			startDate, endDate, utils.FormatAmount(quote.Total))

		notif := &domain.Notification{
			UserID:  owner.ID,
			Title:   "New Booking Request",
			Message: fmt.Sprintf("%s requested to rent %s from %s to %s", renter.Name, item.Title, startDate, endDate),
			Attributes: map[string]string{
				"type":       "BOOKING_REQUESTED",
				"booking_id": fmt.Sprintf("%d", booking.ID),
				"item_id":    fmt.Sprintf("%d", item.ID),
			},
		}
		if err := s.noteRepo.Create(ctx, notif); err != nil {
			logger.Warn("Failed to create booking notification", "bookingID", booking.ID, "error", err)
		}
	}

	logger.ExitMethod("bookingService.CreateBooking", "bookingID", booking.ID, "total", booking.TotalPrice)
	return booking, nil
}

var transitionTitles = map[domain.BookingStatus]string{
	domain.BookingStatusConfirmed: "Booking Approved",
	domain.BookingStatusCancelled: "Booking Cancelled",
	domain.BookingStatusActive:    "Rental Started",
	domain.BookingStatusReturned:  "Item Returned",
}

// Transition applies action to the stored snapshot. Illegal requests fail
// before any write; a legal one is a single status update, last writer wins.
func (s *bookingService) Transition(ctx context.Context, actorID, bookingID int32, action domain.BookingAction) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.Transition", "actorID", actorID, "bookingID", bookingID, "action", action)

	current, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Transition", err, "reason", "booking lookup")
		return nil, domain.Remote("bookings.get", err)
	}

	next, err := domain.ApplyTransition(*current, actorID, action)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Transition", err, "from", current.Status)
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, next.Status); err != nil {
		logger.ExitMethodWithError("bookingService.Transition", err)
		return nil, domain.Remote("bookings.update_status", err)
	}

	s.notifyCounterpart(ctx, &next, actorID)

	logger.ExitMethod("bookingService.Transition", "bookingID", bookingID, "from", current.Status, "to", next.Status)
	return &next, nil
}

func (s *bookingService) notifyCounterpart(ctx context.Context, b *domain.Booking, actorID int32) {
	counterpartID := b.OwnerID
	if actorID == b.OwnerID {
		counterpartID = b.RenterID
	}
	counterpart := b.Renter
	if counterpartID == b.OwnerID {
		counterpart = b.Owner
	}
	if counterpart == nil || counterpart.Email == "" {
		counterpart, _ = s.userRepo.GetByID(ctx, counterpartID)
	}
	if counterpart == nil {
		return
	}
	title := "Booking"
	if b.Item != nil {
		title = b.Item.Title
	}

	_ = s.emailSvc.SendBookingStatusChanged(ctx, counterpart.Email, counterpart.Name, title, b.Status)

	notif := &domain.Notification{
		UserID:  counterpartID,
		Title:   transitionTitles[b.Status],
		Message: fmt.Sprintf("Your booking for %s is now %s", title, b.Status),
		Attributes: map[string]string{
			"type":       "BOOKING_" + strings.ToUpper(string(b.Status)),
			"booking_id": fmt.Sprintf("%d", b.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, notif); err != nil {
		logger.Warn("Failed to create booking notification", "bookingID", b.ID, "error", err)
	}
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, domain.Remote("bookings.get", err)
	}
	if _, ok := b.RoleOf(userID); !ok {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

func (s *bookingService) ListBookings(ctx context.Context, userID int32, role domain.ActorRole, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	if status != "" {
		if _, err := domain.ParseBookingStatus(status); err != nil {
			return nil, 0, err
		}
	}
	var (
		list  []domain.Booking
		total int32
		err   error
	)
	switch role {
	case domain.RoleOwner:
		list, total, err = s.bookingRepo.ListByOwner(ctx, userID, status, page, pageSize)
	case domain.RoleRenter, "":
		list, total, err = s.bookingRepo.ListByRenter(ctx, userID, status, page, pageSize)
	default:
		return nil, 0, domain.NewValidationError("role", "must be one of: owner renter")
	}
	if err != nil {
		return nil, 0, domain.Remote("bookings.list", err)
	}
	return list, total, nil
}
