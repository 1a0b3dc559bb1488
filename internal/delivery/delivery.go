// Package delivery defines the contract every transport (HTTP, worker, ...) implements.
package delivery

import "context"

// Delivery is a long-running transport endpoint managed by the application lifecycle.
type Delivery interface {
	// Serve blocks, accepting work until the server is shut down.
	Serve(ctx context.Context) error
}
