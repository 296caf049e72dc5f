package social

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/shared/errors"
)

// Factory builds provider connectors from the tenant's integration settings.
// Implements channel.ConnectorFactory.
type Factory struct {
	validate *validator.Validate
	// httpClient is shared across connectors; nil picks the per-client
	// default. Tests inject a client pointed at httptest servers.
	httpClient *http.Client
}

func NewConnectorFactory() *Factory {
	return &Factory{validate: validator.New()}
}

// NewConnectorFactoryWithClient builds a factory whose connectors use the
// given HTTP client.
func NewConnectorFactoryWithClient(httpClient *http.Client) *Factory {
	return &Factory{validate: validator.New(), httpClient: httpClient}
}

type facebookCredentials struct {
	AppID     string `validate:"required"`
	AppSecret string `validate:"required"`
	BaseURL   string `validate:"required,url"`
}

type instagramCredentials struct {
	AppID     string `validate:"required"`
	AppSecret string `validate:"required"`
	BaseURL   string `validate:"required,url"`
}

type zaloCredentials struct {
	AppID     string `validate:"required"`
	AppSecret string `validate:"required"`
	BaseURL   string `validate:"required,url"`
}

// ForSource returns the connector for a source, or a validation error when
// the settings lack the provider's credentials.
func (f *Factory) ForSource(settings *integration.Setting, source channel.Source) (channel.Connector, error) {
	if settings == nil {
		return nil, errors.NewInternalError("integration settings are not configured")
	}

	switch source {
	case channel.SourceFacebook:
		creds := facebookCredentials{
			AppID:     settings.FacebookAppID,
			AppSecret: settings.FacebookAppSecret,
			BaseURL:   settings.PublicBaseURL,
		}
		if err := f.validate.Struct(creds); err != nil {
			return nil, errors.NewValidationError("facebook app credentials are not configured", err.Error())
		}
		return &facebookConnector{
			client: NewFacebookClient(FacebookConfig{
				AppID:       settings.FacebookAppID,
				AppSecret:   settings.FacebookAppSecret,
				RedirectURL: settings.CallbackURL(string(channel.SourceFacebook)),
				Scopes:      splitScopes(settings.FacebookScopes),
				HTTPClient:  f.httpClient,
			}),
		}, nil

	case channel.SourceInstagram:
		creds := instagramCredentials{
			AppID:     settings.InstagramAppID,
			AppSecret: settings.InstagramAppSecret,
			BaseURL:   settings.PublicBaseURL,
		}
		if err := f.validate.Struct(creds); err != nil {
			return nil, errors.NewValidationError("instagram app credentials are not configured", err.Error())
		}
		return &instagramConnector{
			client: NewInstagramClient(InstagramConfig{
				AppID:       settings.InstagramAppID,
				AppSecret:   settings.InstagramAppSecret,
				RedirectURL: settings.CallbackURL(string(channel.SourceInstagram)),
				Scopes:      splitScopes(settings.InstagramScopes),
				HTTPClient:  f.httpClient,
			}),
		}, nil

	case channel.SourceZalo:
		creds := zaloCredentials{
			AppID:     settings.ZaloAppID,
			AppSecret: settings.ZaloAppSecret,
			BaseURL:   settings.PublicBaseURL,
		}
		if err := f.validate.Struct(creds); err != nil {
			return nil, errors.NewValidationError("zalo app credentials are not configured", err.Error())
		}
		return &zaloConnector{
			client: NewZaloClient(ZaloConfig{
				AppID:       settings.ZaloAppID,
				AppSecret:   settings.ZaloAppSecret,
				RedirectURL: settings.CallbackURL(string(channel.SourceZalo)),
				HTTPClient:  f.httpClient,
			}),
		}, nil

	default:
		return nil, errors.NewValidationError("unsupported channel source: " + string(source))
	}
}

// ConfigureFacebookAppWebhook registers the app-level webhook callback and
// verify token with Facebook. Runs once per settings change, not per page.
func (f *Factory) ConfigureFacebookAppWebhook(ctx context.Context, settings *integration.Setting) error {
	if settings == nil {
		return errors.NewInternalError("integration settings are not configured")
	}

	creds := facebookCredentials{
		AppID:     settings.FacebookAppID,
		AppSecret: settings.FacebookAppSecret,
		BaseURL:   settings.PublicBaseURL,
	}
	if err := f.validate.Struct(creds); err != nil {
		return errors.NewValidationError("facebook app credentials are not configured", err.Error())
	}
	if settings.WebhookVerifyToken == "" {
		return errors.NewValidationError("webhook verify token is not configured")
	}

	client := NewFacebookClient(FacebookConfig{
		AppID:      settings.FacebookAppID,
		AppSecret:  settings.FacebookAppSecret,
		HTTPClient: f.httpClient,
	})
	return client.ConfigureAppWebhook(ctx, settings.WebhookCallbackURL(), settings.WebhookVerifyToken)
}

func splitScopes(scopes string) []string {
	parts := strings.Split(scopes, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

type facebookConnector struct {
	client *FacebookClient
}

func (c *facebookConnector) Source() channel.Source { return channel.SourceFacebook }
func (c *facebookConnector) RequiresPKCE() bool     { return false }

func (c *facebookConnector) BuildAuthURL(state, _ string) string {
	return c.client.BuildAuthURL(state)
}

func (c *facebookConnector) Exchange(ctx context.Context, code, _ string) (*channel.TokenSet, error) {
	shortLived, err := c.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	longLived, expiresIn, err := c.client.ExchangeLongLived(ctx, shortLived)
	if err != nil {
		return nil, err
	}
	return &channel.TokenSet{AccessToken: longLived, ExpiresIn: expiresIn}, nil
}

func (c *facebookConnector) FetchAccounts(ctx context.Context, tokens *channel.TokenSet) ([]channel.LinkedAccount, error) {
	return c.client.FetchUserPages(ctx, tokens.AccessToken)
}

func (c *facebookConnector) Subscribe(ctx context.Context, account channel.LinkedAccount) error {
	return c.client.SubscribePageWebhook(ctx, account.PageID, account.AccessToken)
}

type instagramConnector struct {
	client *InstagramClient
}

func (c *instagramConnector) Source() channel.Source { return channel.SourceInstagram }
func (c *instagramConnector) RequiresPKCE() bool     { return false }

func (c *instagramConnector) BuildAuthURL(state, _ string) string {
	return c.client.BuildAuthURL(state)
}

func (c *instagramConnector) Exchange(ctx context.Context, code, _ string) (*channel.TokenSet, error) {
	shortLived, err := c.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	longLived, expiresIn, err := c.client.ExchangeLongLived(ctx, shortLived)
	if err != nil {
		return nil, err
	}
	return &channel.TokenSet{AccessToken: longLived, ExpiresIn: expiresIn}, nil
}

func (c *instagramConnector) FetchAccounts(ctx context.Context, tokens *channel.TokenSet) ([]channel.LinkedAccount, error) {
	account, err := c.client.FetchAccount(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}
	return []channel.LinkedAccount{account}, nil
}

func (c *instagramConnector) Subscribe(ctx context.Context, account channel.LinkedAccount) error {
	return c.client.SubscribeWebhook(ctx, account.PageID, account.AccessToken)
}

type zaloConnector struct {
	client *ZaloClient
}

func (c *zaloConnector) Source() channel.Source { return channel.SourceZalo }
func (c *zaloConnector) RequiresPKCE() bool     { return true }

func (c *zaloConnector) BuildAuthURL(state, codeChallenge string) string {
	return c.client.BuildAuthURL(state, codeChallenge)
}

func (c *zaloConnector) Exchange(ctx context.Context, code, codeVerifier string) (*channel.TokenSet, error) {
	tokens, err := c.client.ExchangeCode(ctx, code, codeVerifier)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (c *zaloConnector) FetchAccounts(ctx context.Context, tokens *channel.TokenSet) ([]channel.LinkedAccount, error) {
	account, err := c.client.FetchOfficialAccount(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}
	return []channel.LinkedAccount{account}, nil
}

// Subscribe is a no-op: Zalo delivers OA events to the app-level webhook
// configured in the developer console, with no per-account subscription.
func (c *zaloConnector) Subscribe(_ context.Context, _ channel.LinkedAccount) error {
	return nil
}
