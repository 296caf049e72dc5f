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
	apperrors "github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

var errSessionMissing = errors.New("oauth session not found or expired")

func testSettings() *integration.Setting {
	return &integration.Setting{
		ID:                 1,
		FacebookAppID:      "fb-app",
		FacebookAppSecret:  "fb-secret",
		ZaloAppID:          "zalo-app",
		ZaloAppSecret:      "zalo-secret",
		PublicBaseURL:      "https://connect.example.com",
		AdminURL:           "https://admin.example.com",
		WebhookVerifyToken: "verify-me",
	}
}

func settingsRepoWith(s *integration.Setting) *mockSettingRepository {
	return &mockSettingRepository{
		GetCurrentFunc: func(ctx context.Context) (*integration.Setting, error) {
			return s, nil
		},
	}
}

func staticPKCE(verifier, challenge string) PKCEGenerator {
	return func() (string, string, error) {
		return verifier, challenge, nil
	}
}

type initiateFixture struct {
	uc       *InitiateChannelLinkUseCase
	sessions *mockSessionStore
	logs     *mockLogRepository
}

func newInitiateFixture(t *testing.T, settings *integration.Setting, factory *mockConnectorFactory, pkce PKCEGenerator) *initiateFixture {
	t.Helper()

	sessions := newMockSessionStore()
	logs := &mockLogRepository{}

	uc := NewInitiateChannelLinkUseCase(
		settingsRepoWith(settings),
		factory,
		sessions,
		pkce,
		NewAuditLogger(logs, logger.NewLogger()),
		"https://fallback.example.com",
		logger.NewLogger(),
	)

	return &initiateFixture{uc: uc, sessions: sessions, logs: logs}
}

func TestInitiateChannelLink_Facebook(t *testing.T) {
	connector := &mockConnector{source: channel.SourceFacebook}
	f := newInitiateFixture(t, testSettings(),
		&mockConnectorFactory{connector: connector}, staticPKCE("unused", "unused"))

	result := f.uc.Execute(context.Background(), dto.InitiateLinkRequest{Source: "facebook"})
	require.NotEmpty(t, result.State)
	assert.Contains(t, result.RedirectURL, "state="+result.State)
	assert.Empty(t, result.LogSID)

	session, ok := f.sessions.sessions[result.State]
	require.True(t, ok)
	assert.Equal(t, "facebook", session.Source)
	assert.Empty(t, session.CodeVerifier)
	assert.Empty(t, f.logs.entries)
}

func TestInitiateChannelLink_ZaloStoresVerifier(t *testing.T) {
	var gotChallenge string
	connector := &mockConnector{
		source:       channel.SourceZalo,
		requiresPKCE: true,
		BuildAuthURLFunc: func(state, codeChallenge string) string {
			gotChallenge = codeChallenge
			return "https://oauth.zaloapp.com/v4/oa/permission?state=" + state
		},
	}
	f := newInitiateFixture(t, testSettings(),
		&mockConnectorFactory{connector: connector}, staticPKCE("verifier-xyz", "challenge-abc"))
	userID := uint(42)

	result := f.uc.Execute(context.Background(), dto.InitiateLinkRequest{Source: "zalo", UserID: &userID})
	require.NotEmpty(t, result.State)
	assert.Equal(t, "challenge-abc", gotChallenge)

	session := f.sessions.sessions[result.State]
	assert.Equal(t, "verifier-xyz", session.CodeVerifier)
	require.NotNil(t, session.UserID)
	assert.Equal(t, uint(42), *session.UserID)
}

func TestInitiateChannelLink_InvalidSource(t *testing.T) {
	f := newInitiateFixture(t, testSettings(),
		&mockConnectorFactory{connector: &mockConnector{}}, staticPKCE("", ""))

	result := f.uc.Execute(context.Background(), dto.InitiateLinkRequest{Source: "telegram"})

	require.Len(t, f.logs.entries, 1)
	entry := f.logs.entries[0]
	assert.True(t, entry.IsError())
	assert.Contains(t, entry.Context, "unsupported channel source")

	assert.Equal(t, entry.SID, result.LogSID)
	assert.Equal(t, "https://admin.example.com/admin/integration-logs/"+entry.SID, result.RedirectURL)
	assert.Empty(t, result.State)
	assert.Empty(t, f.sessions.sessions)
}

func TestInitiateChannelLink_SettingsNotConfigured(t *testing.T) {
	f := newInitiateFixture(t, nil,
		&mockConnectorFactory{connector: &mockConnector{}}, staticPKCE("", ""))

	result := f.uc.Execute(context.Background(), dto.InitiateLinkRequest{Source: "facebook"})

	// No admin URL is known, so the browser lands on the fallback.
	assert.Equal(t, "https://fallback.example.com", result.RedirectURL)
	assert.Empty(t, result.State)

	require.Len(t, f.logs.entries, 1)
	assert.True(t, f.logs.entries[0].IsError())
	assert.Contains(t, f.logs.entries[0].Context, "facebook")
}

func TestInitiateChannelLink_MissingCredentials(t *testing.T) {
	f := newInitiateFixture(t, testSettings(),
		&mockConnectorFactory{err: apperrors.NewValidationError("facebook app credentials are not configured")},
		staticPKCE("", ""))

	userID := uint(7)
	result := f.uc.Execute(context.Background(), dto.InitiateLinkRequest{Source: "facebook", UserID: &userID})

	require.Len(t, f.logs.entries, 1)
	entry := f.logs.entries[0]
	assert.True(t, entry.IsError())
	assert.Contains(t, entry.Message, "facebook channel link rejected")
	assert.Contains(t, entry.Context, "credentials are not configured")
	require.NotNil(t, entry.UserID)
	assert.Equal(t, uint(7), *entry.UserID)

	assert.Equal(t, "https://admin.example.com/admin/integration-logs/"+entry.SID, result.RedirectURL)
}

func TestInitiateChannelLink_SessionSaveFails(t *testing.T) {
	connector := &mockConnector{source: channel.SourceFacebook}
	f := newInitiateFixture(t, testSettings(),
		&mockConnectorFactory{connector: connector}, staticPKCE("", ""))
	f.sessions.SaveFunc = func(ctx context.Context, state string, session LinkSession) error {
		return errors.New("redis down")
	}

	result := f.uc.Execute(context.Background(), dto.InitiateLinkRequest{Source: "facebook"})

	require.Len(t, f.logs.entries, 1)
	assert.Contains(t, f.logs.entries[0].Context, "failed to save link session")
	assert.Equal(t, "https://admin.example.com/admin/integration-logs/"+f.logs.entries[0].SID, result.RedirectURL)
}
