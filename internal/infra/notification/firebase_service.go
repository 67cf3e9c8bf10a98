// Package notification pushes security alerts to account owners via
// Firebase Cloud Messaging topics.
package notification

import (
	"context"
	"fmt"

	"careid/internal/domain/entity"
	"careid/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type firebaseAlertNotifier struct {
	client *messaging.Client
}

// NewFirebaseAlertNotifier creates the FCM-backed alert notifier. Devices
// subscribe to the per-account alert topic when the owner signs in.
func NewFirebaseAlertNotifier(ctx context.Context, credentialsPath string) (service.AlertNotifier, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &firebaseAlertNotifier{
		client: client,
	}, nil
}

// PushSecurityAlert sends the alert to the account's FCM topic.
func (s *firebaseAlertNotifier) PushSecurityAlert(ctx context.Context, user *entity.User, event string) error {
	title, body := alertContent(event)
	message := &messaging.Message{
		Topic: AlertTopic(user.Login),
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"event": event,
			"login": user.Login,
		},
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send security alert: %w", err)
	}

	return nil
}

// AlertTopic returns the FCM topic carrying security alerts for the login.
func AlertTopic(login string) string {
	return "account-alerts-" + login
}

func alertContent(event string) (title, body string) {
	switch event {
	case service.AlertPasswordChanged:
		return "Password changed", "Your account password was just changed."
	case service.AlertPasswordResetComplete:
		return "Password reset", "Your account password was reset."
	default:
		return "Account security alert", "Security-relevant activity happened on your account."
	}
}

// NoopAlertNotifier is used when Firebase is not configured.
type NoopAlertNotifier struct{}

func (NoopAlertNotifier) PushSecurityAlert(context.Context, *entity.User, string) error {
	return nil
}
