package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
	"github.com/brightpath-labs/zohobridge/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore implements driven.TokenStore using PostgreSQL.
// The table holds at most one row; tokens are sealed at rest.
type TokenStore struct {
	db     *sql.DB
	cipher *TokenCipher
}

// NewTokenStore creates a new PostgreSQL-backed token store.
func NewTokenStore(db *sql.DB, cipher *TokenCipher) *TokenStore {
	return &TokenStore{db: db, cipher: cipher}
}

// Get returns the stored token, or nil when no authorization exists yet.
func (s *TokenStore) Get(ctx context.Context) (*domain.Token, error) {
	query := `
		SELECT access_token, refresh_token, region, expires_at, created_at, updated_at
		FROM zoho_tokens
		WHERE id = 1
	`

	var (
		accessBlob  []byte
		refreshBlob []byte
		token       domain.Token
	)
	err := s.db.QueryRowContext(ctx, query).Scan(
		&accessBlob,
		&refreshBlob,
		&token.Region,
		&token.ExpiresAt,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	if token.AccessToken, err = s.cipher.Open(accessBlob); err != nil {
		return nil, fmt.Errorf("unseal access token: %w", err)
	}
	if token.RefreshToken, err = s.cipher.Open(refreshBlob); err != nil {
		return nil, fmt.Errorf("unseal refresh token: %w", err)
	}

	return &token, nil
}

// Replace atomically swaps the stored token for the given one.
// An upsert against the pinned row id keeps this a single statement.
func (s *TokenStore) Replace(ctx context.Context, token *domain.Token) error {
	accessBlob, err := s.cipher.Seal(token.AccessToken)
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}
	refreshBlob, err := s.cipher.Seal(token.RefreshToken)
	if err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}

	query := `
		INSERT INTO zoho_tokens (id, access_token, refresh_token, region, expires_at, created_at, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			region = EXCLUDED.region,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query,
		accessBlob,
		refreshBlob,
		token.Region,
		token.ExpiresAt,
		token.CreatedAt,
		token.UpdatedAt,
	); err != nil {
		return fmt.Errorf("replace token: %w", err)
	}

	return nil
}

// Update rewrites only the access token and its expiry after a refresh.
// A no-op when no token is stored.
func (s *TokenStore) Update(ctx context.Context, accessToken string, expiresAt time.Time) error {
	accessBlob, err := s.cipher.Seal(accessToken)
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}

	query := `
		UPDATE zoho_tokens
		SET access_token = $1, expires_at = $2, updated_at = NOW()
		WHERE id = 1
	`

	if _, err := s.db.ExecContext(ctx, query, accessBlob, expiresAt); err != nil {
		return fmt.Errorf("update token: %w", err)
	}

	return nil
}
