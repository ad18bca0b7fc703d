package service

import "context"

// LoginThrottle limits failed login attempts per username.
type LoginThrottle interface {
	// Allow reports whether another attempt is permitted for the key.
	Allow(ctx context.Context, key string) (bool, error)

	// RecordFailure counts one failed attempt.
	RecordFailure(ctx context.Context, key string) error

	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, key string) error
}
