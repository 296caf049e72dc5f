package models

import (
	"time"
)

// IntegrationSettingModel is the GORM model for integration_settings table.
// The table holds a single row per deployment.
type IntegrationSettingModel struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	FacebookAppID     string `gorm:"column:facebook_app_id;type:varchar(100)"`
	FacebookAppSecret string `gorm:"column:facebook_app_secret;type:varchar(255)"`
	FacebookScopes    string `gorm:"column:facebook_scopes;type:varchar(500)"`

	InstagramAppID     string `gorm:"column:instagram_app_id;type:varchar(100)"`
	InstagramAppSecret string `gorm:"column:instagram_app_secret;type:varchar(255)"`
	InstagramScopes    string `gorm:"column:instagram_scopes;type:varchar(500)"`

	ZaloAppID     string `gorm:"column:zalo_app_id;type:varchar(100)"`
	ZaloAppSecret string `gorm:"column:zalo_app_secret;type:varchar(255)"`

	PublicBaseURL        string `gorm:"column:public_base_url;type:varchar(255)"`
	AdminURL             string `gorm:"column:admin_url;type:varchar(255)"`
	WebhookVerifyToken   string `gorm:"column:webhook_verify_token;type:varchar(255)"`
	DownstreamWebhookURL string `gorm:"column:downstream_webhook_url;type:varchar(255)"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (IntegrationSettingModel) TableName() string {
	return "integration_settings"
}
