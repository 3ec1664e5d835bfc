package service

import (
	"context"
	"strings"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookingRepo repository.BookingRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, bookingRepo: bookingRepo}
}

// SubmitReview writes a review once the booking is returned. A second
// review of the same booking is accepted.
func (s *reviewService) SubmitReview(ctx context.Context, reviewerID, bookingID int32, target domain.ReviewTarget, rating int, comment string) (*domain.Review, error) {
	logger.EnterMethod("reviewService.SubmitReview", "reviewerID", reviewerID, "bookingID", bookingID, "target", target)

	if target == "" {
		target = domain.ReviewTargetCounterpart
	}
	if target != domain.ReviewTargetItem && target != domain.ReviewTargetCounterpart {
		return nil, domain.NewValidationError("target", "must be one of: item counterpart")
	}

	review := &domain.Review{
		BookingID:  bookingID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}
	if err := domain.Validate(review); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, domain.Remote("bookings.get", err)
	}
	role, ok := booking.RoleOf(reviewerID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	if !domain.CanReview(booking) {
		return nil, &domain.InvalidTransitionError{
			Entity: "booking", From: string(booking.Status), Action: "review",
			Reason: "reviews open once the item is returned",
		}
	}

	review.ItemID = booking.ItemID
	review.RevieweeID = domain.ResolveRevieweeID(booking, role, target)
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		logger.ExitMethodWithError("reviewService.SubmitReview", err)
		return nil, domain.Remote("reviews.create", err)
	}

	logger.ExitMethod("reviewService.SubmitReview", "reviewID", review.ID, "revieweeID", review.RevieweeID)
	return review, nil
}

func (s *reviewService) ListItemReviews(ctx context.Context, itemID int32) ([]domain.Review, *ItemRating, error) {
	reviews, err := s.reviewRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, nil, domain.Remote("reviews.list", err)
	}
	avg, count, err := s.reviewRepo.AverageForItem(ctx, itemID)
	if err != nil {
		return nil, nil, domain.Remote("reviews.average", err)
	}
	return reviews, &ItemRating{Average: avg, Count: count}, nil
}

func (s *reviewService) ListUserReviews(ctx context.Context, userID int32) ([]domain.Review, error) {
	reviews, err := s.reviewRepo.ListByReviewee(ctx, userID)
	if err != nil {
		return nil, domain.Remote("reviews.list", err)
	}
	return reviews, nil
}
