package driven

import (
	"context"
	"time"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
)

// AuthState is a single-use CSRF state minted when the consent URL is
// built and consumed when the callback returns.
type AuthState struct {
	State     string
	Region    domain.Region
	CreatedAt time.Time
	ExpiresAt time.Time
}

// AuthStateStore persists OAuth flow state between the consent redirect
// and the provider callback.
type AuthStateStore interface {
	// Save stores a new state.
	Save(ctx context.Context, state *AuthState) error

	// GetAndDelete atomically retrieves and deletes the state, enforcing
	// single-use semantics. Returns (nil, nil) when the state is unknown
	// or expired.
	GetAndDelete(ctx context.Context, state string) (*AuthState, error)

	// Cleanup removes expired states.
	Cleanup(ctx context.Context) error
}
