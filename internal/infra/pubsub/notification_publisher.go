package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"

	deliverycontext "careid/internal/delivery/context"
	"careid/internal/domain/service"

	"github.com/pkg/errors"
)

const notificationSubscription = "account-notifications"

// pubsubNotificationPublisher implements service.NotificationPublisher by
// publishing account notifications for the downstream mailer service.
type pubsubNotificationPublisher struct {
	publisher topicPublisher
	logger    *slog.Logger
}

// NewNotificationPublisher creates the account notification publisher based on configuration.
func NewNotificationPublisher(params PublisherParams) (service.NotificationPublisher, error) {
	var topicID string
	if params.Config.PubSub != nil {
		topicID = params.Config.PubSub.NotificationTopicID
	}

	publisher, err := newTopicPublisher(params, topicID, notificationSubscription)
	if err != nil {
		return nil, err
	}

	return &pubsubNotificationPublisher{
		publisher: publisher,
		logger:    params.Logger,
	}, nil
}

// PublishAccountNotification pushes one notification onto the outbound channel.
func (p *pubsubNotificationPublisher) PublishAccountNotification(ctx context.Context, notification *service.AccountNotification) error {
	if notification.RequestID == "" {
		notification.RequestID = deliverycontext.GetRequestID(ctx)
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return errors.WithStack(err)
	}

	attributes := map[string]string{
		"type":  notification.Type,
		"login": notification.Login,
	}
	if notification.RequestID != "" {
		attributes["request_id"] = notification.RequestID
	}

	p.logger.Info("Publishing account notification",
		slog.String("type", notification.Type),
		slog.String("login", notification.Login),
	)

	return p.publisher.Publish(ctx, notification.Login+":"+notification.Type, data, attributes)
}

// Close releases any resources held by the publisher.
func (p *pubsubNotificationPublisher) Close() error {
	return p.publisher.Close()
}
