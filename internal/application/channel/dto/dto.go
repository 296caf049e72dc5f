package dto

import "time"

// ListChannelsRequest narrows the channel listing.
type ListChannelsRequest struct {
	Source   string `form:"source"`
	Enabled  *bool  `form:"enabled"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ChannelResponse is the admin view of a linked channel. Tokens are masked:
// the admin UI never needs the full credential.
type ChannelResponse struct {
	ID          string     `json:"id"`
	Source      string     `json:"source"`
	PageID      string     `json:"page_id"`
	Name        string     `json:"name"`
	AccessToken string     `json:"access_token"`
	Enabled     bool       `json:"enabled"`
	ExpiredDate *time.Time `json:"expired_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SetChannelEnabledRequest toggles message processing for one channel.
type SetChannelEnabledRequest struct {
	SID     string `json:"-"`
	Enabled bool   `json:"enabled"`
}
