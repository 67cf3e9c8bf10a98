package service

import "context"

// Account notification types understood by the downstream mailer service.
const (
	NotificationActivation    = "activation"
	NotificationPasswordReset = "password_reset"
	NotificationCreation      = "creation"
)

// AccountNotification is the payload handed to the notification channel when
// an account event needs to reach the user (activation mail, reset mail).
// Delivery itself happens in a downstream service consuming the channel.
type AccountNotification struct {
	Type      string `json:"type"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	LangKey   string `json:"lang_key,omitempty"`
	Key       string `json:"key,omitempty"` // Activation or reset key, depending on Type.
	RequestID string `json:"request_id,omitempty"`
}

// NotificationPublisher pushes account notifications onto the outbound
// channel. Failures are surfaced to the caller, which decides whether they
// are fatal; the lifecycle engine itself never depends on delivery.
type NotificationPublisher interface {
	PublishAccountNotification(ctx context.Context, notification *AccountNotification) error

	// Close releases any resources held by the publisher.
	Close() error
}
