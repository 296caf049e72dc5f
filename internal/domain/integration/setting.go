package integration

import (
	"time"
)

// Setting holds the tenant-scoped connector configuration: provider app
// credentials, requested scopes, the externally reachable base URL used to
// derive OAuth redirect URIs and the webhook callback, the webhook
// verification token, and the downstream automation URL that receives
// provider events. Read-only to the linking flow.
type Setting struct {
	ID uint

	FacebookAppID     string
	FacebookAppSecret string
	FacebookScopes    string // comma-separated, as entered by the operator

	InstagramAppID     string
	InstagramAppSecret string
	InstagramScopes    string

	ZaloAppID     string
	ZaloAppSecret string

	// PublicBaseURL is the externally reachable URL of this service, used
	// to build provider redirect URIs and the webhook callback URL.
	PublicBaseURL string

	// AdminURL is the operator frontend the callback handlers redirect to.
	AdminURL string

	WebhookVerifyToken   string
	DownstreamWebhookURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChannelListURL is the success redirect target after a link completes.
func (s *Setting) ChannelListURL() string {
	return s.AdminURL + "/admin/channels"
}

// LogListURL is the fallback error redirect target when no log id exists.
func (s *Setting) LogListURL() string {
	return s.AdminURL + "/admin/integration-logs"
}

// LogDetailURL is the operator drill-down for a single integration log.
func (s *Setting) LogDetailURL(logSID string) string {
	return s.AdminURL + "/admin/integration-logs/" + logSID
}

// CallbackURL derives the provider OAuth redirect URI for a source.
func (s *Setting) CallbackURL(source string) string {
	return s.PublicBaseURL + "/api/" + source + "/auth/callback"
}

// WebhookCallbackURL is the endpoint registered with providers for event push.
func (s *Setting) WebhookCallbackURL() string {
	return s.PublicBaseURL + "/api/webhook"
}
