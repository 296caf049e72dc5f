package dto

import (
	"encoding/json"
	"time"
)

// ListLogsRequest narrows the integration log listing.
type ListLogsRequest struct {
	Level    string `form:"level"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// LogResponse is the operator view of one audit entry.
type LogResponse struct {
	ID        string          `json:"id"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Context   string          `json:"context,omitempty"`
	UserID    *uint           `json:"user_id,omitempty"`
	Request   json.RawMessage `json:"request,omitempty"`
	Response  json.RawMessage `json:"response,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// UpdateSettingsRequest replaces the connector configuration.
type UpdateSettingsRequest struct {
	FacebookAppID     string `json:"facebook_app_id" yaml:"facebook_app_id"`
	FacebookAppSecret string `json:"facebook_app_secret" yaml:"facebook_app_secret"`
	FacebookScopes    string `json:"facebook_scopes" yaml:"facebook_scopes"`

	InstagramAppID     string `json:"instagram_app_id" yaml:"instagram_app_id"`
	InstagramAppSecret string `json:"instagram_app_secret" yaml:"instagram_app_secret"`
	InstagramScopes    string `json:"instagram_scopes" yaml:"instagram_scopes"`

	ZaloAppID     string `json:"zalo_app_id" yaml:"zalo_app_id"`
	ZaloAppSecret string `json:"zalo_app_secret" yaml:"zalo_app_secret"`

	PublicBaseURL        string `json:"public_base_url" yaml:"public_base_url" binding:"required"`
	AdminURL             string `json:"admin_url" yaml:"admin_url" binding:"required"`
	WebhookVerifyToken   string `json:"webhook_verify_token" yaml:"webhook_verify_token"`
	DownstreamWebhookURL string `json:"downstream_webhook_url" yaml:"downstream_webhook_url"`
}

// SettingsResponse is the operator view of the connector configuration.
// Secrets are masked.
type SettingsResponse struct {
	FacebookAppID     string `json:"facebook_app_id"`
	FacebookAppSecret string `json:"facebook_app_secret"`
	FacebookScopes    string `json:"facebook_scopes"`

	InstagramAppID     string `json:"instagram_app_id"`
	InstagramAppSecret string `json:"instagram_app_secret"`
	InstagramScopes    string `json:"instagram_scopes"`

	ZaloAppID     string `json:"zalo_app_id"`
	ZaloAppSecret string `json:"zalo_app_secret"`

	PublicBaseURL        string    `json:"public_base_url"`
	AdminURL             string    `json:"admin_url"`
	WebhookVerifyToken   string    `json:"webhook_verify_token"`
	DownstreamWebhookURL string    `json:"downstream_webhook_url"`
	UpdatedAt            time.Time `json:"updated_at"`
}
