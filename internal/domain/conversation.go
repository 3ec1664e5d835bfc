package domain

import "time"

type MessageType string

const (
	MessageTypeText           MessageType = "text"
	MessageTypeInquiry        MessageType = "inquiry"
	MessageTypeBookingRequest MessageType = "booking_request"
)

// Conversation is a two-party thread. The pair is stored ordered
// (ParticipantA < ParticipantB) so lookups ignore who started it.
type Conversation struct {
	ID             int32     `json:"id"`
	ParticipantA   int32     `json:"participant_a"`
	ParticipantB   int32     `json:"participant_b"`
	ItemID         *int32    `json:"item_id,omitempty"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`

	UnreadCount int32    `json:"unread_count"`
	LastMessage *Message `json:"last_message,omitempty"`
}

type Message struct {
	ID             int32       `json:"id"`
	ConversationID int32       `json:"conversation_id"`
	SenderID       int32       `json:"sender_id"`
	Content        string      `json:"content"`
	Type           MessageType `json:"type"`
	IsRead         bool        `json:"is_read"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NormalizePair orders two participant ids.
func NormalizePair(a, b int32) (int32, int32) {
	if a > b {
		return b, a
	}
	return a, b
}

func (c *Conversation) HasParticipant(userID int32) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

func (c *Conversation) Counterpart(userID int32) int32 {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// UnreadDigest is one row of the daily unread-message email.
type UnreadDigest struct {
	UserID        int32
	Email         string
	Name          string
	UnreadCount   int32
	Conversations int32
}
