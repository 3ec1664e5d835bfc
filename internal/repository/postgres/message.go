package postgres

import (
	"context"
	"database/sql"
	"time"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (conversation_id, sender_id, content, type, is_read, created_at) 
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now().UTC()
	logger.DatabaseCall("INSERT", "messages", "conversationID", m.ConversationID, "senderID", m.SenderID)
	err := r.db.QueryRowContext(ctx, query, m.ConversationID, m.SenderID, m.Content, string(m.Type), false, now).Scan(&m.ID)
	logger.DatabaseResult("INSERT", 1, err, "messageID", m.ID)
	if err != nil {
		return err
	}
	m.CreatedAt = now
	m.IsRead = false
	return nil
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID int32, limit, offset int32) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, conversation_id, sender_id, content, type, is_read, created_at 
	          FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		var msgType string
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &msgType, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Type = domain.MessageType(msgType)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *messageRepository) MarkRead(ctx context.Context, conversationID, readerID int32) (int64, error) {
	query := `UPDATE messages SET is_read = TRUE WHERE conversation_id = $1 AND sender_id <> $2 AND NOT is_read`
	res, err := r.db.ExecContext(ctx, query, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListUnreadDigests groups unread messages by recipient.
func (r *messageRepository) ListUnreadDigests(ctx context.Context) ([]domain.UnreadDigest, error) {
	query := `SELECT u.id, u.email, u.name, count(*), count(DISTINCT c.id)
	          FROM messages m
	          JOIN conversations c ON c.id = m.conversation_id
	          JOIN users u ON u.id = CASE WHEN m.sender_id = c.participant_a THEN c.participant_b ELSE c.participant_a END
	          WHERE NOT m.is_read
	          GROUP BY u.id, u.email, u.name
	          ORDER BY u.id`
	logger.DatabaseCall("SELECT", "messages", "purpose", "unread digest")
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var digests []domain.UnreadDigest
	for rows.Next() {
		var d domain.UnreadDigest
		if err := rows.Scan(&d.UserID, &d.Email, &d.Name, &d.UnreadCount, &d.Conversations); err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}
	logger.DatabaseResult("SELECT", int64(len(digests)), rows.Err())
	return digests, rows.Err()
}
