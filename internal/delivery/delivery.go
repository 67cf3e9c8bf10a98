// Package delivery defines the contract shared by every inbound adapter,
// the HTTP server and the background scheduler alike.
package delivery

import "context"

// Delivery is a long-running inbound adapter. Serve blocks until the adapter
// stops; shutdown is driven through the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
