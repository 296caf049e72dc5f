package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miasolution2024/omniconnect/internal/application/connect/dto"
	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

type callbackFixture struct {
	uc       *HandleLinkCallbackUseCase
	sessions *mockSessionStore
	channels *mockChannelRepository
	logs     *mockLogRepository
	notifier *mockNotifier
}

func newCallbackFixture(t *testing.T, connector *mockConnector) *callbackFixture {
	t.Helper()

	sessions := newMockSessionStore()
	channels := &mockChannelRepository{}
	logs := &mockLogRepository{}
	notifier := &mockNotifier{}

	uc := NewHandleLinkCallbackUseCase(
		settingsRepoWith(testSettings()),
		channels,
		&mockConnectorFactory{connector: connector},
		sessions,
		NewAuditLogger(logs, logger.NewLogger()),
		"https://fallback.example.com",
		logger.NewLogger(),
	)
	uc.SetFailureNotifier(notifier)

	return &callbackFixture{
		uc:       uc,
		sessions: sessions,
		channels: channels,
		logs:     logs,
		notifier: notifier,
	}
}

func (f *callbackFixture) errorEntries() []*integration.Log {
	var out []*integration.Log
	for _, entry := range f.logs.entries {
		if entry.IsError() {
			out = append(out, entry)
		}
	}
	return out
}

func (f *callbackFixture) infoMessages() []string {
	var out []string
	for _, entry := range f.logs.entries {
		if !entry.IsError() {
			out = append(out, entry.Message)
		}
	}
	return out
}

func TestHandleLinkCallback_FacebookTwoPages(t *testing.T) {
	connector := &mockConnector{
		source: channel.SourceFacebook,
		ExchangeFunc: func(ctx context.Context, code, codeVerifier string) (*channel.TokenSet, error) {
			assert.Equal(t, "auth-code", code)
			assert.Empty(t, codeVerifier)
			return &channel.TokenSet{AccessToken: "long-lived-token", ExpiresIn: 5183944}, nil
		},
		FetchAccountsFunc: func(ctx context.Context, tokens *channel.TokenSet) ([]channel.LinkedAccount, error) {
			return []channel.LinkedAccount{
				{PageID: "111", Name: "Coffee Shop", AccessToken: "page-token-1"},
				{PageID: "222", Name: "Flower Shop", AccessToken: "page-token-2"},
			}, nil
		},
	}
	f := newCallbackFixture(t, connector)
	f.sessions.sessions["state-1"] = LinkSession{Source: "facebook"}

	result := f.uc.Execute(context.Background(), dto.CallbackRequest{
		Source: "facebook",
		State:  "state-1",
		Code:   "auth-code",
	})

	assert.Equal(t, "https://admin.example.com/admin/channels", result.RedirectURL)
	assert.Equal(t, []string{"111", "222"}, result.LinkedPages)
	assert.Empty(t, result.LogSID)

	require.Len(t, f.channels.upserted, 2)
	assert.Equal(t, "page-token-1", f.channels.upserted[0].AccessToken)
	assert.Equal(t, "page-token-2", f.channels.upserted[1].AccessToken)
	// Page tokens from /me/accounts do not expire.
	assert.Nil(t, f.channels.upserted[0].ExpiredDate)

	assert.Equal(t, []string{"111", "222"}, connector.subscribeCalls)
	assert.Empty(t, f.errorEntries())
	assert.Empty(t, f.notifier.alerts)

	// Every completed step leaves an info entry, with tokens masked.
	assert.Equal(t, []string{
		"authorization code exchanged",
		"linked accounts fetched",
		"webhook subscribed",
		"channel linked",
		"webhook subscribed",
		"channel linked",
		"channel link completed",
	}, f.infoMessages())
	for _, entry := range f.logs.entries {
		assert.NotContains(t, entry.Context, "long-lived-token")
		assert.NotContains(t, entry.Context, "page-token-1")
	}
}

func TestHandleLinkCallback_SecondPageSubscribeFails(t *testing.T) {
	connector := &mockConnector{
		source: channel.SourceFacebook,
		FetchAccountsFunc: func(ctx context.Context, tokens *channel.TokenSet) ([]channel.LinkedAccount, error) {
			return []channel.LinkedAccount{
				{PageID: "111", Name: "First", AccessToken: "page-token-1"},
				{PageID: "222", Name: "Second", AccessToken: "page-token-2"},
			}, nil
		},
		SubscribeFunc: func(ctx context.Context, account channel.LinkedAccount) error {
			if account.PageID == "222" {
				return errors.New("permission denied")
			}
			return nil
		},
	}
	f := newCallbackFixture(t, connector)
	f.sessions.sessions["state-1"] = LinkSession{Source: "facebook"}

	result := f.uc.Execute(context.Background(), dto.CallbackRequest{
		Source: "facebook",
		State:  "state-1",
		Code:   "auth-code",
	})

	// The first page stays linked.
	require.Len(t, f.channels.upserted, 1)
	assert.Equal(t, "111", f.channels.upserted[0].PageID)
	assert.Equal(t, []string{"111"}, result.LinkedPages)

	entries := f.errorEntries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "subscribing_webhook")
	assert.Contains(t, entries[0].Context, "222")

	// The trail keeps the steps that did complete.
	assert.Equal(t, []string{
		"authorization code exchanged",
		"linked accounts fetched",
		"webhook subscribed",
		"channel linked",
	}, f.infoMessages())

	assert.Equal(t, entries[0].SID, result.LogSID)
	assert.Equal(t, "https://admin.example.com/admin/integration-logs/"+entries[0].SID, result.RedirectURL)
	assert.Len(t, f.notifier.alerts, 1)
}

func TestHandleLinkCallback_RelinkExistingPage(t *testing.T) {
	connector := &mockConnector{
		source: channel.SourceFacebook,
		FetchAccountsFunc: func(ctx context.Context, tokens *channel.TokenSet) ([]channel.LinkedAccount, error) {
			return []channel.LinkedAccount{{PageID: "111", Name: "Coffee Shop", AccessToken: "fresh-page-token"}}, nil
		},
	}
	f := newCallbackFixture(t, connector)
	f.sessions.sessions["state-1"] = LinkSession{Source: "facebook"}
	f.channels.GetByPageIDFunc = func(ctx context.Context, source channel.Source, pageID string) (*channel.Channel, error) {
		if pageID == "111" {
			return &channel.Channel{SID: "ch_existing", PageID: "111"}, nil
		}
		return nil, nil
	}

	result := f.uc.Execute(context.Background(), dto.CallbackRequest{
		Source: "facebook",
		State:  "state-1",
		Code:   "auth-code",
	})

	assert.Equal(t, []string{"111"}, result.LinkedPages)
	require.Len(t, f.channels.upserted, 1)

	// A page already known under the same source is recorded as a relink.
	assert.Contains(t, f.infoMessages(), "channel relinked")
	assert.NotContains(t, f.infoMessages(), "channel linked")
}

func TestHandleLinkCallback_MissingCode(t *testing.T) {
	connector := &mockConnector{source: channel.SourceFacebook}
	f := newCallbackFixture(t, connector)
	f.sessions.sessions["state-1"] = LinkSession{Source: "facebook"}

	result := f.uc.Execute(context.Background(), dto.CallbackRequest{
		Source: "facebook",
		State:  "state-1",
	})

	// No provider call was made and nothing was persisted.
	assert.Zero(t, connector.exchangeCalls)
	assert.Zero(t, connector.fetchCalls)
	assert.Empty(t, f.channels.upserted)

	entries := f.errorEntries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "awaiting_code")
	assert.Equal(t, "https://admin.example.com/admin/integration-logs/"+entries[0].SID, result.RedirectURL)
}

func TestHandleLinkCallback_UserDenied(t *testing.T) {
	connector := &mockConnector{source: channel.SourceFacebook}
	f := newCallbackFixture(t, connector)

	result := f.uc.Execute(context.Background(), dto.CallbackRequest{
		Source:           "facebook",
		State:            "state-1",
		ErrorCode:        "access_denied",
		ErrorDescription: "the user denied the request",
	})

	assert.Zero(t, connector.exchangeCalls)
	entries := f.errorEntries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Context, "access_denied")
	assert.NotEmpty(t, result.LogSID)
}

func TestHandleLinkCallback_ExpiredState(t *testing.T) {
	connector := &mockConnector{source: channel.SourceFacebook}
	f := newCallbackFixture(t, connector)

	result := f.uc.Execute(context.Background(), dto.CallbackRequest{
		Source: "facebook",
		State:  "never-issued",
		Code:   "auth-code",
	})

	assert.Zero(t, connector.exchangeCalls)
	entries := f.errorEntries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Context, "state rejected")
	assert.NotEmpty(t, result.LogSID)
}

func TestHandleLinkCallback_SourceMismatch(t *testing.T) {
	connector := &mockConnector{source: channel.SourceInstagram}
	f := newCallbackFixture(t, connector)
	f.sessions.sessions["state-1"] = LinkSession{Source: "facebook"}

	f.uc.Execute(context.Background(), dto.CallbackRequest{
		Source: "instagram",
		State:  "state-1",
		Code:   "auth-code",
	})

	assert.Zero(t, connector.exchangeCalls)
	entries := f.errorEntries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Context, "state belongs to facebook")
}

type payloadError struct {
	msg  string
	body []byte
}

func (e *payloadError) Error() string   { return e.msg }
func (e *payloadError) Payload() []byte { return e.body }

func TestHandleLinkCallback_ProviderErrorEchoed(t *testing.T) {
	providerBody := []byte(`{"error":{"message":"Invalid verification code format.","type":"OAuthException","code":100}}`)
	connector := &mockConnector{
		source: channel.SourceFacebook,
		ExchangeFunc: func(ctx context.Context, code, codeVerifier string) (*channel.TokenSet, error) {
			return nil, &payloadError{msg: "facebook API error: Invalid verification code format.", body: providerBody}
		},
	}
	f := newCallbackFixture(t, connector)
	f.sessions.sessions["state-1"] = LinkSession{Source: "facebook"}

	result := f.uc.Execute(context.Background(), dto.CallbackRequest{
		Source: "facebook",
		State:  "state-1",
		Code:   "bad-code",
	})

	entries := f.errorEntries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "exchanging_token")
	assert.NotEmpty(t, entries[0].Context)
	assert.JSONEq(t, string(providerBody), string(entries[0].Response))
	assert.NotEmpty(t, result.LogSID)
}

func TestHandleLinkCallback_ZaloUsesVerifierAndStoresRefreshToken(t *testing.T) {
	connector := &mockConnector{
		source:       channel.SourceZalo,
		requiresPKCE: true,
		ExchangeFunc: func(ctx context.Context, code, codeVerifier string) (*channel.TokenSet, error) {
			assert.Equal(t, "verifier-xyz", codeVerifier)
			return &channel.TokenSet{
				AccessToken:  "oa-token",
				RefreshToken: "oa-refresh",
				ExpiresIn:    90000,
			}, nil
		},
		FetchAccountsFunc: func(ctx context.Context, tokens *channel.TokenSet) ([]channel.LinkedAccount, error) {
			return []channel.LinkedAccount{{PageID: "999", Name: "OA", AccessToken: tokens.AccessToken}}, nil
		},
	}
	f := newCallbackFixture(t, connector)
	f.sessions.sessions["state-1"] = LinkSession{Source: "zalo", CodeVerifier: "verifier-xyz"}

	result := f.uc.Execute(context.Background(), dto.CallbackRequest{
		Source: "zalo",
		State:  "state-1",
		Code:   "auth-code",
	})

	assert.Equal(t, []string{"999"}, result.LinkedPages)
	require.Len(t, f.channels.upserted, 1)
	assert.Equal(t, "oa-refresh", f.channels.upserted[0].RefreshToken)
	require.NotNil(t, f.channels.upserted[0].ExpiredDate)
}

func TestHandleLinkCallback_SettingsUnreadable(t *testing.T) {
	logs := &mockLogRepository{}
	uc := NewHandleLinkCallbackUseCase(
		settingsRepoWith(nil),
		&mockChannelRepository{},
		&mockConnectorFactory{connector: &mockConnector{source: channel.SourceFacebook}},
		newMockSessionStore(),
		NewAuditLogger(logs, logger.NewLogger()),
		"https://fallback.example.com",
		logger.NewLogger(),
	)

	result := uc.Execute(context.Background(), dto.CallbackRequest{
		Source: "facebook",
		State:  "state-1",
		Code:   "auth-code",
	})

	assert.Equal(t, "https://fallback.example.com", result.RedirectURL)
	require.Len(t, logs.entries, 1)
	assert.True(t, logs.entries[0].IsError())
}
