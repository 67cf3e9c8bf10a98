// Package pubsub publishes account events to external channels: the search
// index mirror and the account notification topic.
package pubsub

import "context"

// topicPublisher is the provider-agnostic contract shared by the Google,
// local HTTP and no-op backends. Each instance is bound to a single topic.
type topicPublisher interface {
	// Publish sends one message with its routing attributes to the topic.
	Publish(ctx context.Context, messageID string, data []byte, attributes map[string]string) error

	// Close releases any resources held by the publisher.
	Close() error
}
