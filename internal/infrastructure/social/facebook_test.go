package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFacebookTestClient(handler http.Handler) (*FacebookClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewFacebookClient(FacebookConfig{
		AppID:       "fb-app",
		AppSecret:   "fb-secret",
		RedirectURL: "https://connect.example.com/api/facebook/auth/callback",
		Scopes:      []string{"pages_show_list", "pages_messaging"},
		GraphURL:    server.URL,
	})
	return client, server
}

func TestFacebookClient_BuildAuthURL(t *testing.T) {
	client := NewFacebookClient(FacebookConfig{
		AppID:       "fb-app",
		AppSecret:   "fb-secret",
		RedirectURL: "https://connect.example.com/api/facebook/auth/callback",
		Scopes:      []string{"pages_show_list"},
	})

	authURL := client.BuildAuthURL("state-123")

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "www.facebook.com", parsed.Host)
	assert.Equal(t, "fb-app", parsed.Query().Get("client_id"))
	assert.Equal(t, "state-123", parsed.Query().Get("state"))
	assert.Equal(t, "code", parsed.Query().Get("response_type"))
	assert.Contains(t, parsed.Query().Get("scope"), "pages_show_list")
}

func TestFacebookClient_ExchangeCode(t *testing.T) {
	client, server := newFacebookTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/access_token", r.URL.Path)
		assert.Equal(t, "fb-app", r.URL.Query().Get("client_id"))
		assert.Equal(t, "auth-code", r.URL.Query().Get("code"))
		w.Write([]byte(`{"access_token":"short-lived-token","token_type":"bearer"}`))
	}))
	defer server.Close()

	token, err := client.ExchangeCode(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "short-lived-token", token)
}

func TestFacebookClient_ExchangeCode_GraphError(t *testing.T) {
	client, server := newFacebookTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid verification code format.","type":"OAuthException","code":100,"fbtrace_id":"AbCdEf"}}`))
	}))
	defer server.Close()

	_, err := client.ExchangeCode(context.Background(), "bad-code")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "facebook", apiErr.Provider)
	assert.Equal(t, "Invalid verification code format.", apiErr.Message)
	assert.Equal(t, "OAuthException", apiErr.Type)
	assert.Equal(t, 100, apiErr.Code)
	assert.Equal(t, "AbCdEf", apiErr.TraceID)
	assert.NotEmpty(t, apiErr.RawBody)
}

func TestFacebookClient_ExchangeLongLived(t *testing.T) {
	client, server := newFacebookTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fb_exchange_token", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "short-lived-token", r.URL.Query().Get("fb_exchange_token"))
		w.Write([]byte(`{"access_token":"long-lived-token","token_type":"bearer","expires_in":5183944}`))
	}))
	defer server.Close()

	token, expiresIn, err := client.ExchangeLongLived(context.Background(), "short-lived-token")
	require.NoError(t, err)
	assert.Equal(t, "long-lived-token", token)
	assert.Equal(t, int64(5183944), expiresIn)
}

func TestFacebookClient_FetchUserPages(t *testing.T) {
	client, server := newFacebookTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/accounts", r.URL.Path)
		assert.Equal(t, "id,name,access_token", r.URL.Query().Get("fields"))
		w.Write([]byte(`{"data":[
			{"id":"111","name":"Coffee Shop","access_token":"page-token-1"},
			{"id":"222","name":"Flower Shop","access_token":"page-token-2"}
		]}`))
	}))
	defer server.Close()

	pages, err := client.FetchUserPages(context.Background(), "user-token")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "111", pages[0].PageID)
	assert.Equal(t, "Coffee Shop", pages[0].Name)
	assert.Equal(t, "page-token-1", pages[0].AccessToken)
	assert.Equal(t, "222", pages[1].PageID)
}

func TestFacebookClient_SubscribePageWebhook(t *testing.T) {
	client, server := newFacebookTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/111/subscribed_apps", r.URL.Path)
		assert.Equal(t, "page-token", r.URL.Query().Get("access_token"))
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	err := client.SubscribePageWebhook(context.Background(), "111", "page-token")
	assert.NoError(t, err)
}

func TestFacebookClient_SubscribePageWebhook_NotSuccessful(t *testing.T) {
	client, server := newFacebookTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer server.Close()

	err := client.SubscribePageWebhook(context.Background(), "111", "page-token")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "facebook", apiErr.Provider)
}

func TestFacebookClient_ConfigureAppWebhook(t *testing.T) {
	client, server := newFacebookTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fb-app/subscriptions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "page", r.PostForm.Get("object"))
		assert.Equal(t, "https://connect.example.com/api/webhook", r.PostForm.Get("callback_url"))
		assert.Equal(t, "verify-me", r.PostForm.Get("verify_token"))
		assert.Equal(t, "fb-app|fb-secret", r.PostForm.Get("access_token"))
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	err := client.ConfigureAppWebhook(context.Background(), "https://connect.example.com/api/webhook", "verify-me")
	assert.NoError(t, err)
}
