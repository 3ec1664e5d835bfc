package postgres

import (
	"context"
	"database/sql"
	"time"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type conversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

const conversationColumns = `c.id, c.participant_a, c.participant_b, c.item_id, c.last_activity_at, c.created_at`

func scanConversation(row interface{ Scan(...any) error }, extra ...any) (*domain.Conversation, error) {
	c := &domain.Conversation{}
	var itemID sql.NullInt32
	dest := []any{&c.ID, &c.ParticipantA, &c.ParticipantB, &itemID, &c.LastActivityAt, &c.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, notFound(err)
	}
	if itemID.Valid {
		id := itemID.Int32
		c.ItemID = &id
	}
	return c, nil
}

func itemKey(itemID *int32) int32 {
	if itemID == nil {
		return 0
	}
	return *itemID
}

func (r *conversationRepository) FindByParticipants(ctx context.Context, userA, userB int32, itemID *int32) (*domain.Conversation, error) {
	a, b := domain.NormalizePair(userA, userB)
	query := `SELECT ` + conversationColumns + ` FROM conversations c 
	          WHERE c.participant_a = $1 AND c.participant_b = $2 AND COALESCE(c.item_id, 0) = $3`
	logger.DatabaseCall("SELECT", "conversations", "participantA", a, "participantB", b, "itemID", itemKey(itemID))
	return scanConversation(r.db.QueryRowContext(ctx, query, a, b, itemKey(itemID)))
}

func (r *conversationRepository) Create(ctx context.Context, c *domain.Conversation) error {
	logger.EnterMethod("conversationRepository.Create", "participantA", c.ParticipantA, "participantB", c.ParticipantB)
	c.ParticipantA, c.ParticipantB = domain.NormalizePair(c.ParticipantA, c.ParticipantB)
	now := time.Now().UTC()
	var itemID interface{}
	if c.ItemID != nil {
		itemID = *c.ItemID
	}

	query := `INSERT INTO conversations (participant_a, participant_b, item_id, last_activity_at, created_at) 
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	logger.DatabaseCall("INSERT", "conversations")
	err := r.db.QueryRowContext(ctx, query, c.ParticipantA, c.ParticipantB, itemID, now, now).Scan(&c.ID)
	logger.DatabaseResult("INSERT", 1, err, "conversationID", c.ID)

	if isUniqueViolation(err) {
		// Someone created the same thread between our lookup and insert.
		existing, findErr := r.FindByParticipants(ctx, c.ParticipantA, c.ParticipantB, c.ItemID)
		if findErr != nil {
			logger.ExitMethodWithError("conversationRepository.Create", findErr)
			return findErr
		}
		*c = *existing
		logger.ExitMethod("conversationRepository.Create", "conversationID", c.ID, "existing", true)
		return nil
	}
	if err != nil {
		logger.ExitMethodWithError("conversationRepository.Create", err)
		return err
	}
	c.LastActivityAt = now
	c.CreatedAt = now
	logger.ExitMethod("conversationRepository.Create", "conversationID", c.ID)
	return nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id int32) (*domain.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations c WHERE c.id = $1`
	return scanConversation(r.db.QueryRowContext(ctx, query, id))
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Conversation, error) {
	query := `SELECT ` + conversationColumns + `,
	            (SELECT count(*) FROM messages m WHERE m.conversation_id = c.id AND m.sender_id <> $1 AND NOT m.is_read),
	            lm.id, lm.sender_id, lm.content, lm.type, lm.is_read, lm.created_at
	          FROM conversations c
	          LEFT JOIN LATERAL (
	            SELECT id, sender_id, content, type, is_read, created_at FROM messages
	            WHERE conversation_id = c.id ORDER BY created_at DESC LIMIT 1
	          ) lm ON TRUE
	          WHERE c.participant_a = $1 OR c.participant_b = $1
	          ORDER BY c.last_activity_at DESC`
	logger.DatabaseCall("SELECT", "conversations", "userID", userID)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	convs := []domain.Conversation{}
	for rows.Next() {
		var unread int32
		var msgID, senderID sql.NullInt32
		var content, msgType sql.NullString
		var isRead sql.NullBool
		var sentAt sql.NullTime
		c, err := scanConversation(rows, &unread, &msgID, &senderID, &content, &msgType, &isRead, &sentAt)
		if err != nil {
			return nil, err
		}
		c.UnreadCount = unread
		if msgID.Valid {
			c.LastMessage = &domain.Message{
				ID:             msgID.Int32,
				ConversationID: c.ID,
				SenderID:       senderID.Int32,
				Content:        content.String,
				Type:           domain.MessageType(msgType.String),
				IsRead:         isRead.Bool,
				CreatedAt:      sentAt.Time,
			}
		}
		convs = append(convs, *c)
	}
	return convs, rows.Err()
}

func (r *conversationRepository) Touch(ctx context.Context, id int32, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations SET last_activity_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
