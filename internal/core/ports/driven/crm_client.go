package driven

import (
	"context"
	"encoding/json"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
)

// TokenExchange is the provider's answer to a token-endpoint call.
type TokenExchange struct {
	AccessToken  string
	RefreshToken string
	APIDomain    string
	ExpiresIn    int
}

// PickListValue is one selectable option of an enumerated CRM field.
type PickListValue struct {
	ActualValue  string
	DisplayValue string
}

// Field is a CRM field descriptor as returned by the field-metadata
// endpoint. Only the pieces this system reads are modelled.
type Field struct {
	APIName        string
	PickListValues []PickListValue
}

// Record is one element of a record-mutation response's data array. Raw
// preserves the element exactly as returned.
type Record struct {
	Raw     json.RawMessage
	Code    string
	Status  string
	Details RecordDetails
}

// RecordDetails carries the externally assigned identifier of a created
// record.
type RecordDetails struct {
	ID string
}

// RecordResult is a record-mutation response. Raw is the entire body.
// The client does not judge success; callers check the shape against
// their own contract (Zoho may return an error payload with a 2xx
// status, and field-level errors inside the data array).
type RecordResult struct {
	Raw  json.RawMessage
	Data []Record
}

// CRMClient is the outbound Zoho surface: token endpoints on the
// region's accounts domain, resource endpoints on the region's API
// domain. Implementations return an error only for transport-level
// failures or provider-signalled token errors; shape checks on record
// mutations are the caller's job.
type CRMClient interface {
	// ExchangeCode swaps a one-time authorization code for a token pair.
	ExchangeCode(ctx context.Context, region domain.Region, code string) (*TokenExchange, error)

	// RefreshAccessToken mints a new access token from the long-lived
	// refresh token. Zoho never rotates the refresh token on this path.
	RefreshAccessToken(ctx context.Context, region domain.Region, refreshToken string) (*TokenExchange, error)

	// ModuleFields fetches field metadata for a CRM module. A response
	// without a fields collection yields a nil slice, not an error.
	ModuleFields(ctx context.Context, region domain.Region, accessToken, module string) ([]Field, error)

	// CreateRecord inserts a single record into a CRM module and returns
	// the raw result regardless of HTTP status.
	CreateRecord(ctx context.Context, region domain.Region, accessToken, module string, record map[string]any) (*RecordResult, error)
}
