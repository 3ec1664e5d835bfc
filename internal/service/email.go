package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
)

// mailSender is satisfied by *sendgrid.Client.
type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

// NewEmailService sends through SendGrid. With no API key every message is
// logged and dropped.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		return &logEmailService{}
	}
	return &emailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	response, err := s.client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)
	return nil
}

func (s *emailService) SendBookingRequested(ctx context.Context, ownerEmail, ownerName, renterName, itemTitle, startDate, endDate, total string) error {
	subject := fmt.Sprintf("New booking request for %s", itemTitle)
	body := fmt.Sprintf("Hello %s,\n\n%s would like to rent %s from %s to %s.\nTotal: $%s\n\nOpen UseThis to approve or decline the request.\n\nThe UseThis Team",
		ownerName, renterName, itemTitle, startDate, endDate, total)
	return s.send(ctx, ownerEmail, ownerName, subject, body)
}

func (s *emailService) SendBookingStatusChanged(ctx context.Context, email, name, itemTitle string, status domain.BookingStatus) error {
	subject := fmt.Sprintf("Booking %s: %s", status, itemTitle)
	body := fmt.Sprintf("Hello %s,\n\nYour booking for %s is now %s.\n\nThe UseThis Team", name, itemTitle, status)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendInquiryReceived(ctx context.Context, ownerEmail, ownerName, inquirerName, itemTitle, subject string) error {
	mailSubject := fmt.Sprintf("New question about %s", itemTitle)
	body := fmt.Sprintf("Hello %s,\n\n%s asked about %s:\n\n%s\n\nReply from your inquiries inbox.\n\nThe UseThis Team",
		ownerName, inquirerName, itemTitle, subject)
	return s.send(ctx, ownerEmail, ownerName, mailSubject, body)
}

func (s *emailService) SendUnreadDigest(ctx context.Context, email, name string, unread, conversations int32) error {
	subject := fmt.Sprintf("You have %d unread messages", unread)
	body := fmt.Sprintf("Hello %s,\n\nYou have %d unread messages across %d conversations.\n\nThe UseThis Team",
		name, unread, conversations)
	return s.send(ctx, email, name, subject, body)
}

type logEmailService struct{}

func (logEmailService) SendBookingRequested(ctx context.Context, ownerEmail, ownerName, renterName, itemTitle, startDate, endDate, total string) error {
	logger.Info("Email disabled, dropping booking request mail", "to", ownerEmail, "item", itemTitle)
	return nil
}

func (logEmailService) SendBookingStatusChanged(ctx context.Context, email, name, itemTitle string, status domain.BookingStatus) error {
	logger.Info("Email disabled, dropping booking status mail", "to", email, "item", itemTitle, "status", status)
	return nil
}

func (logEmailService) SendInquiryReceived(ctx context.Context, ownerEmail, ownerName, inquirerName, itemTitle, subject string) error {
	logger.Info("Email disabled, dropping inquiry mail", "to", ownerEmail, "item", itemTitle)
	return nil
}

func (logEmailService) SendUnreadDigest(ctx context.Context, email, name string, unread, conversations int32) error {
	logger.Info("Email disabled, dropping unread digest", "to", email, "unread", unread)
	return nil
}
