package notification

import (
	"context"
	"fmt"

	staffRepo "salonflow/database/repository/staff"
	"salonflow/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendStylistPush(ctx context.Context, stylistID, title, body string, data map[string]string) error
	SendClientPush(ctx context.Context, clientID, title, body string, data map[string]string) error
}

// ClientTokenSource resolves a client's device token. Client records are
// owned by an external store; only the token lookup is needed here.
type ClientTokenSource interface {
	GetClientToken(ctx context.Context, clientID string) (string, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Staff  staffRepo.StaffRepository
	Tokens ClientTokenSource
}

func NewDefaultNotificationService(staff staffRepo.StaffRepository, tokens ClientTokenSource) (*DefaultNotificationService, error) {
	if staff == nil {
		return nil, fmt.Errorf("notification service initialization error: staff repository is nil")
	}
	return &DefaultNotificationService{Staff: staff, Tokens: tokens}, nil
}

// SendStylistPush looks up a stylist's FCM token and sends a push.
func (s *DefaultNotificationService) SendStylistPush(ctx context.Context, stylistID, title, body string, data map[string]string) error {
	stylist, err := s.Staff.GetStylist(ctx, stylistID)
	if err != nil {
		return fmt.Errorf("SendStylistPush: could not find stylist %s: %w", stylistID, err)
	}
	if stylist.FCMToken == "" {
		return fmt.Errorf("SendStylistPush: stylist %s has no FCM token", stylistID)
	}
	return s.sendToToken(ctx, stylist.FCMToken, title, body, data)
}

// SendClientPush resolves a client's device token and sends a push.
func (s *DefaultNotificationService) SendClientPush(ctx context.Context, clientID, title, body string, data map[string]string) error {
	if s.Tokens == nil {
		return fmt.Errorf("SendClientPush: no client token source configured")
	}
	token, err := s.Tokens.GetClientToken(ctx, clientID)
	if err != nil {
		return fmt.Errorf("SendClientPush: could not resolve token for client %s: %w", clientID, err)
	}
	return s.sendToToken(ctx, token, title, body, data)
}

func (s *DefaultNotificationService) sendToToken(ctx context.Context, token, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return fmt.Errorf("push skipped: FCM client not initialized")
	}
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	return nil
}
