package usecases

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	apperrors "github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

type stubSettingRepo struct {
	settings *integration.Setting
}

func (s *stubSettingRepo) GetCurrent(ctx context.Context) (*integration.Setting, error) {
	return s.settings, nil
}

func (s *stubSettingRepo) Upsert(ctx context.Context, in *integration.Setting) error {
	s.settings = in
	return nil
}

type stubLogRepo struct {
	entries []*integration.Log
}

func (s *stubLogRepo) Append(ctx context.Context, l *integration.Log) error {
	s.entries = append(s.entries, l)
	return nil
}

func (s *stubLogRepo) GetBySID(ctx context.Context, sid string) (*integration.Log, error) {
	return nil, nil
}

func (s *stubLogRepo) List(ctx context.Context, filter integration.LogListFilter) ([]*integration.Log, int64, error) {
	return s.entries, int64(len(s.entries)), nil
}

func TestVerifyWebhook(t *testing.T) {
	repo := &stubSettingRepo{settings: &integration.Setting{WebhookVerifyToken: "verify-me"}}
	uc := NewVerifyWebhookUseCase(repo, logger.NewLogger())

	t.Run("token matches", func(t *testing.T) {
		challenge, err := uc.Execute(context.Background(), "subscribe", "verify-me", "challenge-123")
		require.NoError(t, err)
		assert.Equal(t, "challenge-123", challenge)
	})

	t.Run("token mismatch", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), "subscribe", "wrong", "challenge-123")
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
	})

	t.Run("unsupported mode", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), "unsubscribe", "verify-me", "challenge-123")
		assert.Error(t, err)
	})

	t.Run("unconfigured deployment", func(t *testing.T) {
		uc := NewVerifyWebhookUseCase(&stubSettingRepo{}, logger.NewLogger())
		_, err := uc.Execute(context.Background(), "subscribe", "verify-me", "challenge-123")
		assert.Error(t, err)
	})
}

func TestRelayEvent_DeliversDownstream(t *testing.T) {
	var gotBody string
	var gotEventID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		gotEventID = r.Header.Get("X-Event-ID")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	repo := &stubSettingRepo{settings: &integration.Setting{DownstreamWebhookURL: server.URL}}
	logs := &stubLogRepo{}
	uc := NewRelayEventUseCase(repo, logs, nil, logger.NewLogger())

	eventID, err := uc.Execute(context.Background(), []byte(`{"object":"page","entry":[]}`))
	require.NoError(t, err)
	assert.NotEmpty(t, eventID)
	assert.Equal(t, eventID, gotEventID)
	assert.JSONEq(t, `{"object":"page","entry":[]}`, gotBody)
	assert.Empty(t, logs.entries)
}

func TestRelayEvent_DownstreamFailureIsLoggedNotReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	repo := &stubSettingRepo{settings: &integration.Setting{DownstreamWebhookURL: server.URL}}
	logs := &stubLogRepo{}
	uc := NewRelayEventUseCase(repo, logs, nil, logger.NewLogger())

	_, err := uc.Execute(context.Background(), []byte(`{"object":"page"}`))
	require.NoError(t, err)

	require.Len(t, logs.entries, 1)
	assert.True(t, logs.entries[0].IsError())
	assert.Contains(t, logs.entries[0].Context, "502")
}

func TestRelayEvent_NoDownstreamConfigured(t *testing.T) {
	repo := &stubSettingRepo{settings: &integration.Setting{}}
	logs := &stubLogRepo{}
	uc := NewRelayEventUseCase(repo, logs, nil, logger.NewLogger())

	eventID, err := uc.Execute(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.NotEmpty(t, eventID)
	assert.Empty(t, logs.entries)
}
