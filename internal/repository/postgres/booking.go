package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `b.id, b.item_id, b.renter_id, b.owner_id, b.start_date, b.end_date, b.total_price, b.status, b.created_on, b.updated_on`

const bookingExpandColumns = `, i.title, i.price_per_day, i.image_urls, ru.name, ru.email, ou.name, ou.email`

const bookingExpandJoins = ` JOIN items i ON i.id = b.item_id 
	JOIN users ru ON ru.id = b.renter_id 
	JOIN users ou ON ou.id = b.owner_id`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{Item: &domain.Item{}, Renter: &domain.User{}, Owner: &domain.User{}}
	var start, end, createdOn, updatedOn time.Time
	var status string
	err := row.Scan(&b.ID, &b.ItemID, &b.RenterID, &b.OwnerID, &start, &end, &b.TotalPrice, &status, &createdOn, &updatedOn,
		&b.Item.Title, &b.Item.PricePerDay, pq.Array(&b.Item.ImageURLs), &b.Renter.Name, &b.Renter.Email, &b.Owner.Name, &b.Owner.Email)
	if err != nil {
		return nil, notFound(err)
	}
	b.Status = domain.BookingStatus(status)
	b.StartDate = start.Format(domain.DateLayout)
	b.EndDate = end.Format(domain.DateLayout)
	b.CreatedOn = stamp(createdOn)
	b.UpdatedOn = stamp(updatedOn)
	b.Item.ID, b.Item.OwnerID = b.ItemID, b.OwnerID
	b.Renter.ID = b.RenterID
	b.Owner.ID = b.OwnerID
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	logger.EnterMethod("bookingRepository.Create", "itemID", b.ItemID, "renterID", b.RenterID)
	query := `INSERT INTO bookings (item_id, renter_id, owner_id, start_date, end_date, total_price, status, created_on, updated_on) 
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	logger.DatabaseCall("INSERT", "bookings", "itemID", b.ItemID)
	err := r.db.QueryRowContext(ctx, query, b.ItemID, b.RenterID, b.OwnerID, b.StartDate, b.EndDate, b.TotalPrice, string(b.Status), now, now).Scan(&b.ID)
	logger.DatabaseResult("INSERT", 1, err, "bookingID", b.ID)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.Create", err)
		return err
	}
	b.CreatedOn = stamp(now)
	b.UpdatedOn = b.CreatedOn
	logger.ExitMethod("bookingRepository.Create", "bookingID", b.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + bookingExpandColumns + ` FROM bookings b` + bookingExpandJoins + ` WHERE b.id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, id))
}

// UpdateStatus is an unconditional write: the last writer wins.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status=$1, updated_on=$2 WHERE id=$3`
	logger.DatabaseCall("UPDATE", "bookings", "bookingID", id, "status", status)
	res, err := r.db.ExecContext(ctx, query, string(status), time.Now(), id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	return requireRow(res)
}

func (r *bookingRepository) list(ctx context.Context, column string, userID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	where := fmt.Sprintf(" WHERE b.%s = $1", column)
	args := []interface{}{userID}
	if status != "" {
		where += " AND b.status = $2"
		args = append(args, status)
	}

	var count int32
	countSQL := `SELECT count(*) FROM bookings b` + where
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	limit, offset := pageOffset(page, pageSize)
	query := `SELECT ` + bookingColumns + bookingExpandColumns + ` FROM bookings b` + bookingExpandJoins + where +
		fmt.Sprintf(" ORDER BY b.created_on DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}
