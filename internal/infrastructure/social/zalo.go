package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/miasolution2024/omniconnect/internal/domain/channel"
)

const (
	// DefaultZaloOAuthURL hosts the OA permission and token endpoints.
	DefaultZaloOAuthURL = "https://oauth.zaloapp.com/v4/oa"
	// DefaultZaloOpenAPIURL hosts the Official Account API.
	DefaultZaloOpenAPIURL = "https://openapi.zalo.me/v2.0/oa"
)

type ZaloConfig struct {
	AppID       string
	AppSecret   string
	RedirectURL string
	// OAuthURL and OpenAPIURL override the provider bases, used by tests.
	OAuthURL   string
	OpenAPIURL string
	HTTPClient *http.Client
}

// ZaloClient links Zalo Official Accounts. Zalo mandates PKCE on the OA
// permission flow and delivers the app secret via the secret_key header
// rather than a form field.
type ZaloClient struct {
	cfg        ZaloConfig
	oauthURL   string
	openAPIURL string
	http       *http.Client
}

func NewZaloClient(cfg ZaloConfig) *ZaloClient {
	oauthURL := cfg.OAuthURL
	if oauthURL == "" {
		oauthURL = DefaultZaloOAuthURL
	}
	openAPIURL := cfg.OpenAPIURL
	if openAPIURL == "" {
		openAPIURL = DefaultZaloOpenAPIURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ZaloClient{
		cfg:        cfg,
		oauthURL:   oauthURL,
		openAPIURL: openAPIURL,
		http:       httpClient,
	}
}

// BuildAuthURL returns the OA permission URL carrying the state and the S256
// code challenge for the matching verifier.
func (c *ZaloClient) BuildAuthURL(state, codeChallenge string) string {
	query := url.Values{}
	query.Set("app_id", c.cfg.AppID)
	query.Set("redirect_uri", c.cfg.RedirectURL)
	query.Set("state", state)
	query.Set("code_challenge", codeChallenge)
	return c.oauthURL + "/permission?" + query.Encode()
}

// ExchangeCode turns an authorization code into an OA access token and
// refresh token. The code verifier must match the challenge sent on the
// permission URL.
func (c *ZaloClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (channel.TokenSet, error) {
	form := url.Values{}
	form.Set("app_id", c.cfg.AppID)
	form.Set("code", code)
	form.Set("code_verifier", codeVerifier)
	form.Set("grant_type", "authorization_code")

	return c.requestToken(ctx, form)
}

// RefreshToken trades a refresh token for a fresh token pair. Zalo access
// tokens live for 25 hours, refresh tokens for 3 months and are single-use.
func (c *ZaloClient) RefreshToken(ctx context.Context, refreshToken string) (channel.TokenSet, error) {
	form := url.Values{}
	form.Set("app_id", c.cfg.AppID)
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")

	return c.requestToken(ctx, form)
}

func (c *ZaloClient) requestToken(ctx context.Context, form url.Values) (channel.TokenSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.oauthURL+"/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return channel.TokenSet{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("secret_key", c.cfg.AppSecret)

	body, err := c.do(req)
	if err != nil {
		return channel.TokenSet{}, fmt.Errorf("failed to exchange token: %w", err)
	}

	// Zalo serializes expires_in as a string.
	var result struct {
		AccessToken  string      `json:"access_token"`
		RefreshToken string      `json:"refresh_token"`
		ExpiresIn    json.Number `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return channel.TokenSet{}, fmt.Errorf("failed to parse token response: %w", err)
	}
	if result.AccessToken == "" {
		return channel.TokenSet{}, &APIError{Provider: "zalo", Message: "no access token in response", RawBody: body}
	}

	expiresIn, _ := result.ExpiresIn.Int64()
	return channel.TokenSet{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// FetchOfficialAccount resolves the Official Account behind the token.
func (c *ZaloClient) FetchOfficialAccount(ctx context.Context, accessToken string) (channel.LinkedAccount, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.openAPIURL+"/getoa", nil)
	if err != nil {
		return channel.LinkedAccount{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("access_token", accessToken)

	body, err := c.do(req)
	if err != nil {
		return channel.LinkedAccount{}, fmt.Errorf("failed to fetch official account: %w", err)
	}

	var result struct {
		Error   int    `json:"error"`
		Message string `json:"message"`
		Data    struct {
			OAID json.Number `json:"oa_id"`
			Name string      `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return channel.LinkedAccount{}, fmt.Errorf("failed to parse account response: %w", err)
	}
	if result.Error != 0 {
		return channel.LinkedAccount{}, &APIError{
			Provider: "zalo",
			Message:  result.Message,
			Code:     result.Error,
			RawBody:  body,
		}
	}
	if result.Data.OAID.String() == "" {
		return channel.LinkedAccount{}, &APIError{Provider: "zalo", Message: "no oa id in response", RawBody: body}
	}

	return channel.LinkedAccount{
		PageID:      result.Data.OAID.String(),
		Name:        result.Data.Name,
		AccessToken: accessToken,
	}, nil
}

func (c *ZaloClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if apiErr := decodeZaloOAuthError(body); apiErr != nil {
		return nil, apiErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Provider: "zalo",
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
			RawBody:  body,
		}
	}
	return body, nil
}

// decodeZaloOAuthError handles the token endpoint error shape. A zero or
// absent error_code means the body carries no error.
func decodeZaloOAuthError(body []byte) *APIError {
	var result struct {
		ErrorCode   int    `json:"error_code"`
		ErrorName   string `json:"error_name"`
		ErrorReason string `json:"error_reason"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil
	}
	if result.ErrorCode == 0 {
		return nil
	}
	message := result.ErrorReason
	if message == "" {
		message = result.ErrorName
	}
	return &APIError{
		Provider: "zalo",
		Message:  message,
		Type:     result.ErrorName,
		Code:     result.ErrorCode,
		RawBody:  body,
	}
}
