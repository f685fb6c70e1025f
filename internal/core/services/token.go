package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
	"github.com/brightpath-labs/zohobridge/internal/core/ports/driven"
	"github.com/brightpath-labs/zohobridge/internal/core/ports/driving"
)

// Ensure tokenService implements TokenService
var _ driving.TokenService = (*tokenService)(nil)

const (
	// DefaultScopes are the CRM scopes requested on authorization.
	DefaultScopes = "ZohoCRM.modules.ALL,ZohoCRM.settings.ALL"

	// DefaultStateTTL bounds how long a consent redirect may take.
	DefaultStateTTL = 10 * time.Minute

	// refreshLockName serializes refresh across replicas.
	refreshLockName = "zoho-token-refresh"

	// refreshLockTTL caps how long a crashed holder can block others.
	refreshLockTTL = 30 * time.Second
)

// TokenServiceConfig holds configuration for the token lifecycle service.
type TokenServiceConfig struct {
	// ClientID is the Zoho OAuth app's public identifier. The secret
	// stays with the outbound client; only the consent URL needs the ID.
	ClientID string

	// RedirectURI is where Zoho sends the authorization callback.
	RedirectURI string

	// Region is the deployment zone the consent URL targets.
	Region domain.Region

	// Scopes overrides DefaultScopes when non-empty (comma separated).
	Scopes string

	// TokenStore persists the singleton token.
	TokenStore driven.TokenStore

	// StateStore persists single-use CSRF states.
	StateStore driven.AuthStateStore

	// CRM performs the outbound token-endpoint calls.
	CRM driven.CRMClient

	// Lock serializes refresh across replicas. Optional.
	Lock driven.DistributedLock

	Logger *slog.Logger
}

// tokenService implements the TokenService interface.
type tokenService struct {
	clientID    string
	redirectURI string
	region      domain.Region
	scopes      string
	stateTTL    time.Duration

	tokens driven.TokenStore
	states driven.AuthStateStore
	crm    driven.CRMClient
	lock   driven.DistributedLock
	logger *slog.Logger

	// refreshGroup collapses concurrent in-process refresh attempts
	// into a single provider call.
	refreshGroup singleflight.Group

	now func() time.Time
}

// NewTokenService creates a new token lifecycle service.
func NewTokenService(cfg TokenServiceConfig) driving.TokenService {
	scopes := cfg.Scopes
	if scopes == "" {
		scopes = DefaultScopes
	}
	region := cfg.Region
	if region == "" {
		region = domain.DefaultRegion
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &tokenService{
		clientID:    cfg.ClientID,
		redirectURI: cfg.RedirectURI,
		region:      region,
		scopes:      scopes,
		stateTTL:    DefaultStateTTL,
		tokens:      cfg.TokenStore,
		states:      cfg.StateStore,
		crm:         cfg.CRM,
		lock:        cfg.Lock,
		logger:      logger,
		now:         time.Now,
	}
}

// BeginAuth mints a CSRF state and returns the consent-page URL.
func (s *tokenService) BeginAuth(ctx context.Context) (string, error) {
	state, err := generateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}

	now := s.now()
	if err := s.states.Save(ctx, &driven.AuthState{
		State:     state,
		Region:    s.region,
		CreatedAt: now,
		ExpiresAt: now.Add(s.stateTTL),
	}); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}

	return s.buildAuthURL(state), nil
}

// buildAuthURL deterministically constructs the consent-page URL.
// access_type=offline and prompt=consent together guarantee a refresh
// token is issued even on re-authorization.
func (s *tokenService) buildAuthURL(state string) string {
	params := url.Values{
		"scope":         {s.scopes},
		"client_id":     {s.clientID},
		"response_type": {"code"},
		"access_type":   {"offline"},
		"redirect_uri":  {s.redirectURI},
		"prompt":        {"consent"},
		"state":         {state},
	}
	return s.region.AccountsDomain() + "/oauth/v2/auth?" + params.Encode()
}

// ExchangeCode consumes the state, exchanges the one-time code on the
// given region's accounts domain and replaces the stored token. Storage
// is left untouched on any failure.
func (s *tokenService) ExchangeCode(ctx context.Context, code, state string, region domain.Region) error {
	authState, err := s.states.GetAndDelete(ctx, state)
	if err != nil {
		return fmt.Errorf("get oauth state: %w", err)
	}
	if authState == nil {
		return domain.ErrInvalidState
	}

	exch, err := s.crm.ExchangeCode(ctx, region, code)
	if err != nil {
		s.logger.Error("authorization code exchange failed", "region", region, "error", err)
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	now := s.now()
	token := &domain.Token{
		AccessToken:  exch.AccessToken,
		RefreshToken: exch.RefreshToken,
		Region:       region,
		ExpiresAt:    now.Add(time.Duration(exch.ExpiresIn) * time.Second),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.tokens.Replace(ctx, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	s.logger.Info("zoho authorization complete", "region", region, "expires_at", token.ExpiresAt)
	return nil
}

// ValidAccessToken returns a bearer token valid right now, refreshing a
// stale one transparently. A fresh stored token is returned with zero
// network calls.
func (s *tokenService) ValidAccessToken(ctx context.Context) (*domain.AccessGrant, error) {
	token, err := s.tokens.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if token == nil {
		return nil, domain.ErrTokenMissing
	}

	if !token.Expired(s.now()) {
		return &domain.AccessGrant{Token: token.AccessToken, Region: token.Region}, nil
	}

	v, err, _ := s.refreshGroup.Do(refreshLockName, func() (any, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.AccessGrant), nil
}

// refresh performs one refresh-token exchange and rewrites the stored
// access token. The refresh token itself is never rotated; when the
// exchange fails the caller must fall back to full re-authorization.
func (s *tokenService) refresh(ctx context.Context) (*domain.AccessGrant, error) {
	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, refreshLockName, refreshLockTTL)
		if err != nil {
			s.logger.Warn("refresh lock unavailable, continuing without it", "error", err)
		} else if acquired {
			defer func() { _ = s.lock.Release(ctx, refreshLockName) }()
		}
		// Not acquired: another replica is refreshing. The re-read below
		// picks up its result; otherwise we refresh anyway, since Zoho
		// does not rotate refresh tokens and the store update is
		// last-writer-wins.
	}

	// Re-read: the token may have been refreshed while we waited.
	token, err := s.tokens.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if token == nil {
		return nil, domain.ErrTokenMissing
	}
	now := s.now()
	if !token.Expired(now) {
		return &domain.AccessGrant{Token: token.AccessToken, Region: token.Region}, nil
	}

	exch, err := s.crm.RefreshAccessToken(ctx, token.Region, token.RefreshToken)
	if err != nil {
		s.logger.Error("token refresh failed", "region", token.Region, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
	}

	expiresAt := now.Add(time.Duration(exch.ExpiresIn)*time.Second - domain.RefreshSkew)
	if err := s.tokens.Update(ctx, exch.AccessToken, expiresAt); err != nil {
		return nil, fmt.Errorf("update token: %w", err)
	}

	s.logger.Info("access token refreshed", "region", token.Region, "expires_at", expiresAt)
	return &domain.AccessGrant{Token: exch.AccessToken, Region: token.Region}, nil
}

// generateRandomString generates a cryptographically secure random string.
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}
