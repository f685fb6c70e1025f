package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
	"github.com/brightpath-labs/zohobridge/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CRMClient = (*Client)(nil)

// Config holds the OAuth app credentials the client authenticates with.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Client talks to the Zoho accounts and CRM APIs.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	redirectURI  string

	// Base URL overrides for tests. Empty means derive from the region.
	accountsBase string
	apiBase      string
}

// NewClient creates a new Zoho API client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
	}
}

func (c *Client) accountsURL(region domain.Region) string {
	if c.accountsBase != "" {
		return c.accountsBase
	}
	return region.AccountsDomain()
}

func (c *Client) apiURL(region domain.Region) string {
	if c.apiBase != "" {
		return c.apiBase
	}
	return region.APIDomain()
}

// tokenResponse is the shape of the accounts-server token endpoint.
// Zoho reports failures with a 200 status and an error field, so the
// body has to be inspected either way.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	APIDomain    string `json:"api_domain"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
}

// ExchangeCode exchanges an authorization code for tokens on the given
// region's accounts server.
func (c *Client) ExchangeCode(ctx context.Context, region domain.Region, code string) (*driven.TokenExchange, error) {
	params := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"redirect_uri":  {c.redirectURI},
		"code":          {code},
	}
	return c.tokenCall(ctx, region, "exchange authorization code", params)
}

// RefreshAccessToken trades the long-lived refresh token for a new
// access token. Zoho does not rotate the refresh token.
func (c *Client) RefreshAccessToken(ctx context.Context, region domain.Region, refreshToken string) (*driven.TokenExchange, error) {
	params := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"refresh_token": {refreshToken},
	}
	return c.tokenCall(ctx, region, "refresh access token", params)
}

func (c *Client) tokenCall(ctx context.Context, region domain.Region, op string, params url.Values) (*driven.TokenExchange, error) {
	endpoint := c.accountsURL(region) + "/oauth/v2/token"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if tokenResp.Error != "" {
		return nil, &domain.ProviderError{Op: op, Code: tokenResp.Error, Detail: body}
	}
	if resp.StatusCode != http.StatusOK || tokenResp.AccessToken == "" {
		return nil, &domain.ProviderError{Op: op, Detail: body}
	}

	return &driven.TokenExchange{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		APIDomain:    tokenResp.APIDomain,
		ExpiresIn:    tokenResp.ExpiresIn,
	}, nil
}

// ModuleFields fetches the field metadata for a CRM module.
// A response without a fields collection yields a nil slice, not an error.
func (c *Client) ModuleFields(ctx context.Context, region domain.Region, accessToken, module string) ([]driven.Field, error) {
	endpoint := c.apiURL(region) + "/crm/v2/settings/fields?module=" + url.QueryEscape(module)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{Op: "fetch module fields", Detail: body}
	}

	var fieldsResp struct {
		Fields []struct {
			APIName        string `json:"api_name"`
			PickListValues []struct {
				ActualValue  string `json:"actual_value"`
				DisplayValue string `json:"display_value"`
			} `json:"pick_list_values"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(body, &fieldsResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	fields := make([]driven.Field, 0, len(fieldsResp.Fields))
	for _, f := range fieldsResp.Fields {
		field := driven.Field{APIName: f.APIName}
		for _, v := range f.PickListValues {
			field.PickListValues = append(field.PickListValues, driven.PickListValue{
				ActualValue:  v.ActualValue,
				DisplayValue: v.DisplayValue,
			})
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	return fields, nil
}

// CreateRecord posts a single record to a CRM module. The provider's
// response is returned as-is, parsed or not; only transport failures
// surface as errors. Callers judge success from the data array.
func (c *Client) CreateRecord(ctx context.Context, region domain.Region, accessToken, module string, record map[string]any) (*driven.RecordResult, error) {
	payload, err := json.Marshal(map[string]any{"data": []any{record}})
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	endpoint := c.apiURL(region) + "/crm/v2/" + url.PathEscape(module)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	result := &driven.RecordResult{Raw: body}

	var parsed struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Not the expected shape; the raw body still tells the story.
		return result, nil
	}

	for _, raw := range parsed.Data {
		var rec struct {
			Code    string `json:"code"`
			Status  string `json:"status"`
			Details struct {
				ID string `json:"id"`
			} `json:"details"`
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		result.Data = append(result.Data, driven.Record{
			Raw:    raw,
			Code:   rec.Code,
			Status: rec.Status,
			Details: driven.RecordDetails{
				ID: rec.Details.ID,
			},
		})
	}

	return result, nil
}
