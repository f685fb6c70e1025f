package driving

import (
	"context"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
)

// TokenService owns the OAuth token lifecycle: consent URL construction,
// authorization-code exchange, and handing out currently valid access
// tokens with transparent refresh.
type TokenService interface {
	// BeginAuth mints a single-use CSRF state and returns the provider
	// consent-page URL embedding it.
	BeginAuth(ctx context.Context) (string, error)

	// ExchangeCode consumes the CSRF state, swaps the one-time code for
	// a token pair on the given region's accounts domain, and replaces
	// the stored token. A reused code surfaces as a provider error.
	ExchangeCode(ctx context.Context, code, state string, region domain.Region) error

	// ValidAccessToken is the only entry point other components use to
	// obtain a bearer token. It refreshes a stale token transparently.
	// Errors: domain.ErrTokenMissing when no token exists,
	// domain.ErrTokenExpired when the token is stale and refresh failed.
	ValidAccessToken(ctx context.Context) (*domain.AccessGrant, error)
}
