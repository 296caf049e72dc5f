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

	"golang.org/x/oauth2"
	igendpoint "golang.org/x/oauth2/instagram"

	"github.com/miasolution2024/omniconnect/internal/domain/channel"
)

const (
	// DefaultInstagramAPIURL hosts the OAuth token endpoint.
	DefaultInstagramAPIURL = "https://api.instagram.com"
	// DefaultInstagramGraphURL hosts the Instagram Graph API.
	DefaultInstagramGraphURL = "https://graph.instagram.com/v23.0"
)

type InstagramConfig struct {
	AppID       string
	AppSecret   string
	RedirectURL string
	Scopes      []string
	// APIURL and GraphURL override the provider bases, used by tests.
	APIURL     string
	GraphURL   string
	HTTPClient *http.Client
}

// InstagramClient links Instagram Business accounts via Instagram Login:
// code exchange on api.instagram.com, long-lived upgrade and account
// discovery on graph.instagram.com.
type InstagramClient struct {
	cfg      InstagramConfig
	oauth    *oauth2.Config
	apiURL   string
	graphURL string
	http     *http.Client
}

func NewInstagramClient(cfg InstagramConfig) *InstagramClient {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultInstagramAPIURL
	}
	graphURL := cfg.GraphURL
	if graphURL == "" {
		graphURL = DefaultInstagramGraphURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &InstagramClient{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     igendpoint.Endpoint,
		},
		apiURL:   apiURL,
		graphURL: graphURL,
		http:     httpClient,
	}
}

// BuildAuthURL returns the provider authorization URL for the given state.
func (c *InstagramClient) BuildAuthURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", "code"))
}

// ExchangeCode turns an authorization code into a short-lived access token
// plus the Instagram user id it belongs to.
func (c *InstagramClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.cfg.AppID)
	form.Set("client_secret", c.cfg.AppSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.cfg.RedirectURL)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", &APIError{Provider: "instagram", Message: "no access token in response", RawBody: body}
	}
	return result.AccessToken, nil
}

// ExchangeLongLived upgrades a short-lived token to a long-lived one
// (typically 60 days). Returns the token and the expiry hint in seconds.
func (c *InstagramClient) ExchangeLongLived(ctx context.Context, shortLivedToken string) (string, int64, error) {
	query := url.Values{}
	query.Set("grant_type", "ig_exchange_token")
	query.Set("client_secret", c.cfg.AppSecret)
	query.Set("access_token", shortLivedToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.graphURL+"/access_token?"+query.Encode(), nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to exchange for long-lived token: %w", err)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", 0, fmt.Errorf("failed to parse long-lived token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", 0, &APIError{Provider: "instagram", Message: "no access token in response", RawBody: body}
	}
	return result.AccessToken, result.ExpiresIn, nil
}

// FetchAccount resolves the Business account behind the token. Instagram
// links exactly one account per authorization.
func (c *InstagramClient) FetchAccount(ctx context.Context, accessToken string) (channel.LinkedAccount, error) {
	query := url.Values{}
	query.Set("fields", "user_id,username,name")
	query.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.graphURL+"/me?"+query.Encode(), nil)
	if err != nil {
		return channel.LinkedAccount{}, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return channel.LinkedAccount{}, fmt.Errorf("failed to fetch account: %w", err)
	}

	var result struct {
		UserID   json.Number `json:"user_id"`
		Username string      `json:"username"`
		Name     string      `json:"name"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return channel.LinkedAccount{}, fmt.Errorf("failed to parse account response: %w", err)
	}
	if result.UserID.String() == "" {
		return channel.LinkedAccount{}, &APIError{Provider: "instagram", Message: "no user id in response", RawBody: body}
	}

	name := result.Name
	if name == "" {
		name = result.Username
	}
	return channel.LinkedAccount{
		PageID:      result.UserID.String(),
		Name:        name,
		AccessToken: accessToken,
	}, nil
}

// SubscribeWebhook subscribes the account to message webhooks.
func (c *InstagramClient) SubscribeWebhook(ctx context.Context, accountID, accessToken string) error {
	form := url.Values{}
	form.Set("subscribed_fields", strings.Join(instagramSubscribedFields, ","))
	form.Set("access_token", accessToken)

	endpoint := fmt.Sprintf("%s/%s/subscribed_apps", c.graphURL, accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return fmt.Errorf("failed to subscribe account webhook: %w", err)
	}

	return requireSuccess("instagram", body)
}

func (c *InstagramClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if apiErr := decodeInstagramError(body); apiErr != nil {
		return nil, apiErr
	}
	if apiErr := decodeGraphError("instagram", body); apiErr != nil {
		return nil, apiErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Provider: "instagram",
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
			RawBody:  body,
		}
	}
	return body, nil
}

// decodeInstagramError handles the flat error shape of the Instagram OAuth
// endpoint, which differs from the Graph wrapper.
func decodeInstagramError(body []byte) *APIError {
	var result struct {
		ErrorType    string `json:"error_type"`
		ErrorMessage string `json:"error_message"`
		Code         int    `json:"code"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil
	}
	if result.ErrorMessage == "" {
		return nil
	}
	return &APIError{
		Provider: "instagram",
		Message:  result.ErrorMessage,
		Type:     result.ErrorType,
		Code:     result.Code,
		RawBody:  body,
	}
}
