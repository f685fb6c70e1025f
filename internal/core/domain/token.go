package domain

import "time"

// Token is the singleton OAuth credential pair for the connected Zoho
// organisation. At most one exists at any time; a new authorization
// replaces it wholesale, a refresh only rewrites AccessToken/ExpiresAt.
type Token struct {
	AccessToken  string
	RefreshToken string
	Region       Region
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the access token must be refreshed before use.
// A token expiring exactly now counts as expired.
func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// AccessGrant is what callers get back from the token lifecycle: a bearer
// token known to be valid right now, plus the region its API calls must
// target.
type AccessGrant struct {
	Token  string
	Region Region
}

// RefreshSkew is subtracted from the provider-reported TTL on refresh so
// the token is treated as expired slightly before Zoho invalidates it,
// tolerating clock drift and in-flight latency.
const RefreshSkew = 30 * time.Second
