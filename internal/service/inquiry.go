package service

import (
	"context"
	"strings"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type inquiryService struct {
	inquiryRepo repository.InquiryRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	convSvc     ConversationService
	emailSvc    EmailService
}

func NewInquiryService(
	inquiryRepo repository.InquiryRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	convSvc ConversationService,
	emailSvc EmailService,
) InquiryService {
	return &inquiryService{
		inquiryRepo: inquiryRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		convSvc:     convSvc,
		emailSvc:    emailSvc,
	}
}

func (s *inquiryService) CreateInquiry(ctx context.Context, inquirerID, itemID int32, subject, message string) (*domain.Inquiry, error) {
	inq := &domain.Inquiry{
		ItemID:     itemID,
		InquirerID: inquirerID,
		Subject:    strings.TrimSpace(subject),
		Message:    strings.TrimSpace(message),
		Status:     domain.InquiryStatusOpen,
	}
	if err := domain.Validate(inq); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, domain.Remote("items.get", err)
	}
	if item.OwnerID == inquirerID {
		return nil, domain.NewValidationError("item_id", "you cannot ask about your own item")
	}
	inq.OwnerID = item.OwnerID

	if err := s.inquiryRepo.Create(ctx, inq); err != nil {
		return nil, domain.Remote("inquiries.create", err)
	}

	owner, _ := s.userRepo.GetByID(ctx, item.OwnerID)
	inquirer, _ := s.userRepo.GetByID(ctx, inquirerID)
	if owner != nil && inquirer != nil {
		_ = s.emailSvc.SendInquiryReceived(ctx, owner.Email, owner.Name, inquirer.Name, item.Title, inq.Subject)
	}
	return inq, nil
}

func (s *inquiryService) Reply(ctx context.Context, ownerID, inquiryID int32, text string) (*domain.Inquiry, error) {
	logger.EnterMethod("inquiryService.Reply", "ownerID", ownerID, "inquiryID", inquiryID)
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("message", "is required")
	}

	inq, err := s.inquiryRepo.GetByID(ctx, inquiryID)
	if err != nil {
		return nil, domain.Remote("inquiries.get", err)
	}
	// Check legality before any conversation is created.
	next, err := domain.TransitionInquiry(*inq, ownerID, domain.InquiryStatusResponded)
	if err != nil {
		logger.ExitMethodWithError("inquiryService.Reply", err)
		return nil, err
	}

	itemID := inq.ItemID
	convID, err := s.convSvc.StartConversation(ctx, ownerID, inq.InquirerID, &itemID, text)
	if err != nil {
		logger.ExitMethodWithError("inquiryService.Reply", err, "reason", "conversation")
		return nil, err
	}

	if err := s.inquiryRepo.UpdateStatus(ctx, inquiryID, next.Status, &convID); err != nil {
		logger.ExitMethodWithError("inquiryService.Reply", err)
		return nil, domain.Remote("inquiries.update_status", err)
	}
	next.ConversationID = &convID

	logger.ExitMethod("inquiryService.Reply", "inquiryID", inquiryID, "conversationID", convID)
	return &next, nil
}

func (s *inquiryService) Dismiss(ctx context.Context, ownerID, inquiryID int32) (*domain.Inquiry, error) {
	inq, err := s.inquiryRepo.GetByID(ctx, inquiryID)
	if err != nil {
		return nil, domain.Remote("inquiries.get", err)
	}
	next, err := domain.TransitionInquiry(*inq, ownerID, domain.InquiryStatusClosed)
	if err != nil {
		return nil, err
	}
	if err := s.inquiryRepo.UpdateStatus(ctx, inquiryID, next.Status, nil); err != nil {
		return nil, domain.Remote("inquiries.update_status", err)
	}
	return &next, nil
}

func (s *inquiryService) ListReceived(ctx context.Context, ownerID int32, status string) ([]domain.Inquiry, error) {
	switch domain.InquiryStatus(status) {
	case "", domain.InquiryStatusOpen, domain.InquiryStatusResponded, domain.InquiryStatusClosed:
	default:
		return nil, domain.NewValidationError("status", "must be one of: open responded closed")
	}
	list, err := s.inquiryRepo.ListByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, domain.Remote("inquiries.list", err)
	}
	return list, nil
}

func (s *inquiryService) ListSent(ctx context.Context, inquirerID int32) ([]domain.Inquiry, error) {
	list, err := s.inquiryRepo.ListByInquirer(ctx, inquirerID)
	if err != nil {
		return nil, domain.Remote("inquiries.list", err)
	}
	return list, nil
}
