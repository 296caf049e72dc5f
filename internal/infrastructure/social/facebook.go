package social

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

	"golang.org/x/oauth2"
	fbendpoint "golang.org/x/oauth2/facebook"

	"github.com/miasolution2024/omniconnect/internal/domain/channel"
)

// DefaultGraphURL is the Facebook Graph API base used outside tests.
const DefaultGraphURL = "https://graph.facebook.com/v23.0"

// Webhook fields subscribed for pages. Instagram Business accounts only
// support the messaging subset.
var (
	facebookSubscribedFields  = []string{"messages", "messaging_postbacks"}
	instagramSubscribedFields = []string{"messages"}
)

type FacebookConfig struct {
	AppID       string
	AppSecret   string
	RedirectURL string
	Scopes      []string
	// GraphURL overrides the Graph API base, used by tests.
	GraphURL   string
	HTTPClient *http.Client
}

// FacebookClient talks to the Facebook Graph API: OAuth code exchange,
// long-lived token upgrade, page discovery and webhook subscription.
type FacebookClient struct {
	cfg      FacebookConfig
	oauth    *oauth2.Config
	graphURL string
	http     *http.Client
}

func NewFacebookClient(cfg FacebookConfig) *FacebookClient {
	graphURL := cfg.GraphURL
	if graphURL == "" {
		graphURL = DefaultGraphURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &FacebookClient{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     fbendpoint.Endpoint,
		},
		graphURL: graphURL,
		http:     httpClient,
	}
}

// BuildAuthURL returns the provider authorization URL for the given state.
func (c *FacebookClient) BuildAuthURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", "code"))
}

// ExchangeCode turns an authorization code into a short-lived user token.
func (c *FacebookClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	query := url.Values{}
	query.Set("client_id", c.cfg.AppID)
	query.Set("client_secret", c.cfg.AppSecret)
	query.Set("redirect_uri", c.cfg.RedirectURL)
	query.Set("code", code)

	body, err := c.graphGET(ctx, c.graphURL+"/oauth/access_token?"+query.Encode())
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
		return "", &APIError{Provider: "facebook", Message: "no access token in response", RawBody: body}
	}
	return result.AccessToken, nil
}

// ExchangeLongLived upgrades a short-lived user token to a long-lived one
// (typically 60 days). Returns the token and the provider's expiry hint in
// seconds.
func (c *FacebookClient) ExchangeLongLived(ctx context.Context, shortLivedToken string) (string, int64, error) {
	query := url.Values{}
	query.Set("grant_type", "fb_exchange_token")
	query.Set("client_id", c.cfg.AppID)
	query.Set("client_secret", c.cfg.AppSecret)
	query.Set("fb_exchange_token", shortLivedToken)

	body, err := c.graphGET(ctx, c.graphURL+"/oauth/access_token?"+query.Encode())
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
		return "", 0, &APIError{Provider: "facebook", Message: "no access token in response", RawBody: body}
	}
	return result.AccessToken, result.ExpiresIn, nil
}

// FetchUserPages lists the pages the authenticated user administers. Page
// access tokens returned here do not expire.
func (c *FacebookClient) FetchUserPages(ctx context.Context, userToken string) ([]channel.LinkedAccount, error) {
	query := url.Values{}
	query.Set("fields", "id,name,access_token")
	query.Set("access_token", userToken)

	body, err := c.graphGET(ctx, c.graphURL+"/me/accounts?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pages: %w", err)
	}

	var result struct {
		Data []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse pages response: %w", err)
	}

	accounts := make([]channel.LinkedAccount, 0, len(result.Data))
	for _, page := range result.Data {
		accounts = append(accounts, channel.LinkedAccount{
			PageID:      page.ID,
			Name:        page.Name,
			AccessToken: page.AccessToken,
		})
	}
	return accounts, nil
}

// SubscribePageWebhook subscribes one page to the app's message webhooks.
func (c *FacebookClient) SubscribePageWebhook(ctx context.Context, pageID, pageToken string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"subscribed_fields": facebookSubscribedFields,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal subscribe payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/subscribed_apps?access_token=%s", c.graphURL, pageID, url.QueryEscape(pageToken))
	body, err := c.graphPOST(ctx, endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to subscribe page webhook: %w", err)
	}

	return requireSuccess("facebook", body)
}

// ConfigureAppWebhook registers the app-level webhook callback URL and verify
// token. Done once per app, before any per-page subscription.
func (c *FacebookClient) ConfigureAppWebhook(ctx context.Context, callbackURL, verifyToken string) error {
	form := url.Values{}
	form.Set("object", "page")
	form.Set("callback_url", callbackURL)
	form.Set("fields", strings.Join(facebookSubscribedFields, ","))
	form.Set("verify_token", verifyToken)
	form.Set("access_token", c.cfg.AppID+"|"+c.cfg.AppSecret)

	endpoint := fmt.Sprintf("%s/%s/subscriptions", c.graphURL, c.cfg.AppID)
	body, err := c.graphPOST(ctx, endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to configure app webhook: %w", err)
	}

	return requireSuccess("facebook", body)
}

func (c *FacebookClient) graphGET(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.doGraph(req)
}

func (c *FacebookClient) graphPOST(ctx context.Context, endpoint, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.doGraph(req)
}

func (c *FacebookClient) doGraph(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if apiErr := decodeGraphError("facebook", body); apiErr != nil {
		return nil, apiErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Provider: "facebook",
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
			RawBody:  body,
		}
	}
	return body, nil
}

// decodeGraphError returns the embedded Graph error payload, or nil when the
// body carries none.
func decodeGraphError(provider string, body []byte) *APIError {
	var wrapper struct {
		Error struct {
			Message   string `json:"message"`
			Type      string `json:"type"`
			Code      int    `json:"code"`
			FbtraceID string `json:"fbtrace_id"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil
	}
	if wrapper.Error.Message == "" {
		return nil
	}
	return &APIError{
		Provider: provider,
		Message:  wrapper.Error.Message,
		Type:     wrapper.Error.Type,
		Code:     wrapper.Error.Code,
		TraceID:  wrapper.Error.FbtraceID,
		RawBody:  body,
	}
}

// requireSuccess enforces the Graph convention of {"success": true} on
// mutation endpoints. A response lacking the indicator is a failure.
func requireSuccess(provider string, body []byte) error {
	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !result.Success {
		return &APIError{Provider: provider, Message: "response did not indicate success", RawBody: body}
	}
	return nil
}
