package ports

import (
	"context"
	"time"
)

// OAuthStateStore keeps short-lived OAuth state nonces between /login and the callback
type OAuthStateStore interface {
	// Save records a state for ttl
	Save(ctx context.Context, state string, ttl time.Duration) error

	// Consume removes the state and reports whether it was present and unexpired
	Consume(ctx context.Context, state string) (bool, error)
}
