package postgres

import (
	"context"
	"database/sql"
	"time"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewSelect = `SELECT r.id, r.item_id, r.booking_id, r.reviewer_id, r.reviewee_id, r.rating, COALESCE(r.comment, ''), r.created_on, u.name, COALESCE(u.avatar_url, '') 
	FROM reviews r JOIN users u ON u.id = r.reviewer_id`

// Create does not check for an earlier review of the same booking.
func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (item_id, booking_id, reviewer_id, reviewee_id, rating, comment, created_on) 
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	logger.DatabaseCall("INSERT", "reviews", "bookingID", rv.BookingID, "reviewerID", rv.ReviewerID)
	err := r.db.QueryRowContext(ctx, query, rv.ItemID, rv.BookingID, rv.ReviewerID, rv.RevieweeID, rv.Rating, rv.Comment, now).Scan(&rv.ID)
	logger.DatabaseResult("INSERT", 1, err, "reviewID", rv.ID)
	if err != nil {
		return err
	}
	rv.CreatedOn = stamp(now)
	return nil
}

func (r *reviewRepository) query(ctx context.Context, where string, arg int32) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, reviewSelect+" WHERE "+where+" ORDER BY r.created_on DESC", arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		var createdOn time.Time
		reviewer := &domain.User{}
		if err := rows.Scan(&rv.ID, &rv.ItemID, &rv.BookingID, &rv.ReviewerID, &rv.RevieweeID, &rv.Rating, &rv.Comment, &createdOn, &reviewer.Name, &reviewer.AvatarURL); err != nil {
			return nil, err
		}
		reviewer.ID = rv.ReviewerID
		rv.Reviewer = reviewer
		rv.CreatedOn = stamp(createdOn)
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) ListByItem(ctx context.Context, itemID int32) ([]domain.Review, error) {
	return r.query(ctx, "r.item_id = $1", itemID)
}

func (r *reviewRepository) ListByReviewee(ctx context.Context, userID int32) ([]domain.Review, error) {
	return r.query(ctx, "r.reviewee_id = $1", userID)
}

func (r *reviewRepository) AverageForItem(ctx context.Context, itemID int32) (float64, int32, error) {
	var avg float64
	var count int32
	query := `SELECT COALESCE(AVG(rating), 0), count(*) FROM reviews WHERE item_id = $1`
	if err := r.db.QueryRowContext(ctx, query, itemID).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
