package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"

	deliverycontext "careid/internal/delivery/context"
	"careid/internal/domain/entity"
	"careid/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	mirrorActionUpsert = "upsert"
	mirrorActionDelete = "delete"

	searchSubscription = "user-search-mirror"
)

// pubsubSearchMirror implements service.SearchMirror by publishing user
// documents to the search indexer's topic. The indexer applies messages in
// publish order per user ID.
type pubsubSearchMirror struct {
	publisher topicPublisher
	logger    *slog.Logger
}

// NewSearchMirror creates the search index mirror based on configuration.
func NewSearchMirror(params PublisherParams) (service.SearchMirror, error) {
	var topicID string
	if params.Config.PubSub != nil {
		topicID = params.Config.PubSub.SearchTopicID
	}

	publisher, err := newTopicPublisher(params, topicID, searchSubscription)
	if err != nil {
		return nil, err
	}

	return &pubsubSearchMirror{
		publisher: publisher,
		logger:    params.Logger,
	}, nil
}

// Upsert publishes the current state of the user to the index.
func (m *pubsubSearchMirror) Upsert(ctx context.Context, user *entity.User) error {
	return m.publish(ctx, mirrorActionUpsert, user)
}

// Delete removes the user from the index.
func (m *pubsubSearchMirror) Delete(ctx context.Context, user *entity.User) error {
	return m.publish(ctx, mirrorActionDelete, user)
}

// Close releases any resources held by the mirror.
func (m *pubsubSearchMirror) Close() error {
	return m.publisher.Close()
}

func (m *pubsubSearchMirror) publish(ctx context.Context, action string, user *entity.User) error {
	document := service.NewUserDocument(user)
	document.RequestID = deliverycontext.GetRequestID(ctx)

	data, err := json.Marshal(document)
	if err != nil {
		return errors.WithStack(err)
	}

	attributes := map[string]string{
		"action":  action,
		"user_id": document.ID,
	}
	if document.RequestID != "" {
		attributes["request_id"] = document.RequestID
	}

	return m.publisher.Publish(ctx, document.ID, data, attributes)
}
