package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrTokenMissing indicates no Zoho token has been stored yet
	ErrTokenMissing = errors.New("authorization token is missing")

	// ErrTokenExpired indicates the token expired and could not be refreshed
	ErrTokenExpired = errors.New("authorization token expired")

	// ErrInvalidRegion indicates an unknown Zoho location code
	ErrInvalidRegion = errors.New("invalid region")

	// ErrInvalidState indicates a missing, expired or already-used OAuth state
	ErrInvalidState = errors.New("invalid oauth state")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStage indicates the deal stage is not in the live picklist
	ErrInvalidStage = errors.New("invalid deal stage")

	// ErrStagesUnavailable indicates the Stage picklist could not be read
	ErrStagesUnavailable = errors.New("failed to retrieve deal stages")
)

// ProviderError is a failure reported by Zoho itself: a structured error
// field, or a response whose shape does not match the documented success
// contract. Detail carries the raw response body for diagnostics.
type ProviderError struct {
	Op     string
	Code   string
	Detail json.RawMessage
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: provider returned %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: unexpected provider response", e.Op)
}

// PartialCreateError is returned when the account was created but the
// dependent deal was not. The account is NOT rolled back; its raw record
// and id are carried so callers can see and clean up the orphan.
type PartialCreateError struct {
	AccountID string
	Account   json.RawMessage
	Detail    json.RawMessage
}

func (e *PartialCreateError) Error() string {
	return fmt.Sprintf("failed to create deal (account %s already created)", e.AccountID)
}
