package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
)

func guardedHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestZohoGuard_ValidGrant_PassesThrough(t *testing.T) {
	guard := NewZohoGuard(&mockTokenService{})

	var called bool
	handler := guard.Authorize(guardedHandler(t, &called))

	req := httptest.NewRequest("GET", "/api/zoho/deal-stages", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected the request to pass through")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestZohoGuard_NoGrant_JSONClientGets401(t *testing.T) {
	tokens := &mockTokenService{
		validTokenFn: func(ctx context.Context) (*domain.AccessGrant, error) {
			return nil, domain.ErrTokenMissing
		},
	}
	guard := NewZohoGuard(tokens)

	var called bool
	handler := guard.Authorize(guardedHandler(t, &called))

	req := httptest.NewRequest("GET", "/api/zoho/deal-stages", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("request must not pass through")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	var resp struct {
		Error         string `json:"error"`
		Authenticated bool   `json:"authenticated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "Unauthorized" || resp.Authenticated {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestZohoGuard_NoGrant_AjaxClientGets401(t *testing.T) {
	tokens := &mockTokenService{
		validTokenFn: func(ctx context.Context) (*domain.AccessGrant, error) {
			return nil, domain.ErrTokenMissing
		},
	}
	guard := NewZohoGuard(tokens)

	var called bool
	handler := guard.Authorize(guardedHandler(t, &called))

	req := httptest.NewRequest("GET", "/api/zoho/deal-stages", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestZohoGuard_NoGrant_BrowserRedirected(t *testing.T) {
	tokens := &mockTokenService{
		validTokenFn: func(ctx context.Context) (*domain.AccessGrant, error) {
			return nil, domain.ErrTokenMissing
		},
	}
	guard := NewZohoGuard(tokens)

	var called bool
	handler := guard.Authorize(guardedHandler(t, &called))

	req := httptest.NewRequest("GET", "/api/zoho/deal-stages", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("request must not pass through")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/zoho" {
		t.Errorf("location = %q, want /auth/zoho", loc)
	}
}

func TestZohoGuard_ExpiredGrant_Blocked(t *testing.T) {
	// A failed refresh surfaces as an expired token; the client has to
	// restart the authorization flow.
	tokens := &mockTokenService{
		validTokenFn: func(ctx context.Context) (*domain.AccessGrant, error) {
			return nil, domain.ErrTokenExpired
		},
	}
	guard := NewZohoGuard(tokens)

	var called bool
	handler := guard.Authorize(guardedHandler(t, &called))

	req := httptest.NewRequest("POST", "/api/zoho/create", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
