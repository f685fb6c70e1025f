package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brightpath-labs/zohobridge/internal/core/ports/driven"
)

// Ensure AuthStateStore implements the interface.
var _ driven.AuthStateStore = (*AuthStateStore)(nil)

// DefaultAuthStateTTL is the default time-to-live for authorization states.
const DefaultAuthStateTTL = 10 * time.Minute

// AuthStateStore implements driven.AuthStateStore using PostgreSQL.
type AuthStateStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewAuthStateStore creates a new PostgreSQL-backed authorization state store.
func NewAuthStateStore(db *sql.DB) *AuthStateStore {
	return &AuthStateStore{
		db:  db,
		ttl: DefaultAuthStateTTL,
	}
}

// Save stores a new authorization state.
func (s *AuthStateStore) Save(ctx context.Context, state *driven.AuthState) error {
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	if state.ExpiresAt.IsZero() {
		state.ExpiresAt = now.Add(s.ttl)
	}

	query := `
		INSERT INTO oauth_states (state, region, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.ExecContext(ctx, query,
		state.State,
		state.Region,
		state.CreatedAt,
		state.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}

	return nil
}

// GetAndDelete atomically retrieves and deletes the state.
// Uses DELETE ... RETURNING for atomic single-use semantics.
func (s *AuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.AuthState, error) {
	query := `
		DELETE FROM oauth_states
		WHERE state = $1 AND expires_at > NOW()
		RETURNING state, region, created_at, expires_at
	`

	var authState driven.AuthState
	err := s.db.QueryRowContext(ctx, query, state).Scan(
		&authState.State,
		&authState.Region,
		&authState.CreatedAt,
		&authState.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // State not found or expired
	}
	if err != nil {
		return nil, fmt.Errorf("get and delete oauth state: %w", err)
	}

	return &authState, nil
}

// Cleanup removes expired states.
func (s *AuthStateStore) Cleanup(ctx context.Context) error {
	query := `DELETE FROM oauth_states WHERE expires_at < NOW()`

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("cleanup oauth states: %w", err)
	}

	return nil
}
