package driven

import (
	"context"
	"time"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
)

// TokenStore is the narrow persistence contract for the singleton Zoho
// token. No validation or lifecycle logic lives behind it; the token
// service is its only writer.
type TokenStore interface {
	// Get returns the singleton token, or (nil, nil) when none exists.
	Get(ctx context.Context) (*domain.Token, error)

	// Replace atomically discards any existing token and persists the
	// new one. Used after a successful authorization-code exchange.
	Replace(ctx context.Context, token *domain.Token) error

	// Update rewrites the access token and expiry of the existing
	// singleton in place. Used after a successful refresh. A no-op when
	// no token exists.
	Update(ctx context.Context, accessToken string, expiresAt time.Time) error
}
