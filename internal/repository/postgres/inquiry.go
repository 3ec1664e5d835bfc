package postgres

import (
	"context"
	"database/sql"
	"time"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type inquiryRepository struct {
	db *sql.DB
}

func NewInquiryRepository(db *sql.DB) repository.InquiryRepository {
	return &inquiryRepository{db: db}
}

const inquiryColumns = `id, item_id, inquirer_id, owner_id, subject, message, status, conversation_id, created_on, updated_on`

func scanInquiry(row interface{ Scan(...any) error }) (*domain.Inquiry, error) {
	inq := &domain.Inquiry{}
	var status string
	var convID sql.NullInt32
	var createdOn, updatedOn time.Time
	if err := row.Scan(&inq.ID, &inq.ItemID, &inq.InquirerID, &inq.OwnerID, &inq.Subject, &inq.Message, &status, &convID, &createdOn, &updatedOn); err != nil {
		return nil, notFound(err)
	}
	inq.Status = domain.InquiryStatus(status)
	if convID.Valid {
		id := convID.Int32
		inq.ConversationID = &id
	}
	inq.CreatedOn = stamp(createdOn)
	inq.UpdatedOn = stamp(updatedOn)
	return inq, nil
}

func (r *inquiryRepository) Create(ctx context.Context, inq *domain.Inquiry) error {
	query := `INSERT INTO inquiries (item_id, inquirer_id, owner_id, subject, message, status, created_on, updated_on) 
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	logger.DatabaseCall("INSERT", "inquiries", "itemID", inq.ItemID, "inquirerID", inq.InquirerID)
	err := r.db.QueryRowContext(ctx, query, inq.ItemID, inq.InquirerID, inq.OwnerID, inq.Subject, inq.Message, string(inq.Status), now, now).Scan(&inq.ID)
	logger.DatabaseResult("INSERT", 1, err, "inquiryID", inq.ID)
	if err != nil {
		return err
	}
	inq.CreatedOn = stamp(now)
	inq.UpdatedOn = inq.CreatedOn
	return nil
}

func (r *inquiryRepository) GetByID(ctx context.Context, id int32) (*domain.Inquiry, error) {
	return scanInquiry(r.db.QueryRowContext(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE id = $1`, id))
}

func (r *inquiryRepository) UpdateStatus(ctx context.Context, id int32, status domain.InquiryStatus, conversationID *int32) error {
	query := `UPDATE inquiries SET status=$1, conversation_id=COALESCE($2, conversation_id), updated_on=$3 WHERE id=$4`
	var conv interface{}
	if conversationID != nil {
		conv = *conversationID
	}
	res, err := r.db.ExecContext(ctx, query, string(status), conv, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *inquiryRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Inquiry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inquiries := []domain.Inquiry{}
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		inquiries = append(inquiries, *inq)
	}
	return inquiries, rows.Err()
}

func (r *inquiryRepository) ListByOwner(ctx context.Context, ownerID int32, status string) ([]domain.Inquiry, error) {
	if status == "" {
		return r.list(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE owner_id = $1 ORDER BY created_on DESC`, ownerID)
	}
	return r.list(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE owner_id = $1 AND status = $2 ORDER BY created_on DESC`, ownerID, status)
}

func (r *inquiryRepository) ListByInquirer(ctx context.Context, inquirerID int32) ([]domain.Inquiry, error) {
	return r.list(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE inquirer_id = $1 ORDER BY created_on DESC`, inquirerID)
}
