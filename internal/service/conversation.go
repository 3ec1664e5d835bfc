package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type conversationService struct {
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
	now      func() time.Time
}

func NewConversationService(convRepo repository.ConversationRepository, msgRepo repository.MessageRepository) ConversationService {
	return &conversationService{convRepo: convRepo, msgRepo: msgRepo, now: time.Now}
}

// StartConversation is not transactional: lookup, create and seed are
// sequential store calls. A reused conversation still receives seedText.
func (s *conversationService) StartConversation(ctx context.Context, currentUserID, counterpartID int32, itemID *int32, seedText string) (int32, error) {
	logger.EnterMethod("conversationService.StartConversation", "userID", currentUserID, "counterpartID", counterpartID)

	if currentUserID == counterpartID {
		return 0, domain.NewValidationError("counterpart_id", "cannot start a conversation with yourself")
	}

	existing, err := s.convRepo.FindByParticipants(ctx, currentUserID, counterpartID, itemID)
	switch {
	case err == nil:
		if err := s.seed(ctx, existing.ID, currentUserID, seedText, true); err != nil {
			logger.ExitMethodWithError("conversationService.StartConversation", err, "reason", "seed message")
			return 0, err
		}
		logger.ExitMethod("conversationService.StartConversation", "conversationID", existing.ID, "existing", true)
		return existing.ID, nil
	case !errors.Is(err, domain.ErrNotFound):
		logger.ExitMethodWithError("conversationService.StartConversation", err, "reason", "lookup")
		return 0, domain.Remote("conversations.find", err)
	}

	conv := &domain.Conversation{ParticipantA: currentUserID, ParticipantB: counterpartID, ItemID: itemID}
	if err := s.convRepo.Create(ctx, conv); err != nil {
		logger.ExitMethodWithError("conversationService.StartConversation", err, "reason", "create")
		return 0, domain.Remote("conversations.create", err)
	}

	if err := s.seed(ctx, conv.ID, currentUserID, seedText, false); err != nil {
		logger.ExitMethodWithError("conversationService.StartConversation", err, "reason", "seed message")
		return 0, err
	}

	logger.ExitMethod("conversationService.StartConversation", "conversationID", conv.ID)
	return conv.ID, nil
}

// seed stores a non-blank opening text as an inquiry message. touch bumps
// the conversation so a reused thread sorts as recent.
func (s *conversationService) seed(ctx context.Context, conversationID, senderID int32, text string, touch bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        text,
		Type:           domain.MessageTypeInquiry,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return domain.Remote("messages.create", err)
	}
	if touch {
		if err := s.convRepo.Touch(ctx, conversationID, s.now().UTC()); err != nil {
			return domain.Remote("conversations.touch", err)
		}
	}
	return nil
}

func (s *conversationService) ListConversations(ctx context.Context, userID int32) ([]domain.Conversation, error) {
	convs, err := s.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Remote("conversations.list", err)
	}
	return convs, nil
}

func (s *conversationService) participantConversation(ctx context.Context, userID, conversationID int32) (*domain.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, domain.Remote("conversations.get", err)
	}
	if !conv.HasParticipant(userID) {
		return nil, domain.ErrForbidden
	}
	return conv, nil
}

func (s *conversationService) OpenConversation(ctx context.Context, userID, conversationID int32, limit, offset int32) ([]domain.Message, error) {
	if _, err := s.participantConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	msgs, err := s.msgRepo.ListByConversation(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, domain.Remote("messages.list", err)
	}
	if _, err := s.msgRepo.MarkRead(ctx, conversationID, userID); err != nil {
		logger.Warn("Failed to mark messages read", "conversationID", conversationID, "userID", userID, "error", err)
	}
	return msgs, nil
}

func (s *conversationService) SendMessage(ctx context.Context, senderID, conversationID int32, content string, msgType domain.MessageType) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewValidationError("content", "is required")
	}
	if len(content) > 5000 {
		return nil, domain.NewValidationError("content", "must be at most 5000")
	}
	switch msgType {
	case "":
		msgType = domain.MessageTypeText
	case domain.MessageTypeText, domain.MessageTypeInquiry, domain.MessageTypeBookingRequest:
	default:
		return nil, domain.NewValidationError("type", "must be one of: text inquiry booking_request")
	}

	if _, err := s.participantConversation(ctx, senderID, conversationID); err != nil {
		return nil, err
	}

	msg := &domain.Message{ConversationID: conversationID, SenderID: senderID, Content: content, Type: msgType}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, domain.Remote("messages.create", err)
	}
	if err := s.convRepo.Touch(ctx, conversationID, s.now().UTC()); err != nil {
		return nil, domain.Remote("conversations.touch", err)
	}
	return msg, nil
}
