package channel

import (
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/miasolution2024/omniconnect/internal/shared/biztime"
	"github.com/miasolution2024/omniconnect/internal/shared/id"
)

// Source identifies the messaging platform a channel belongs to.
type Source string

const (
	SourceFacebook  Source = "facebook"
	SourceInstagram Source = "instagram"
	SourceZalo      Source = "zalo"
)

// IsValid reports whether the source is a known platform.
func (s Source) IsValid() bool {
	switch s {
	case SourceFacebook, SourceInstagram, SourceZalo:
		return true
	default:
		return false
	}
}

// Channel represents a linked external messaging account: a Facebook Page, an
// Instagram Business account or a Zalo Official Account, together with the
// credentials needed to act on its behalf.
type Channel struct {
	ID           uint
	SID          string // Stripe-style ID: ch_xxx
	Source       Source
	PageID       string // provider-assigned external id, unique per source
	Name         string
	AccessToken  string
	RefreshToken string
	Enabled      bool
	ExpiredDate  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewChannel creates a channel record for a freshly linked page/account.
// Display names come from the provider and may carry decomposed Unicode
// (Vietnamese page names in particular); they are normalized to NFC so
// lookups and admin search behave consistently.
func NewChannel(source Source, pageID, name, accessToken string) (*Channel, error) {
	if !source.IsValid() {
		return nil, fmt.Errorf("invalid channel source: %s", source)
	}
	if pageID == "" {
		return nil, fmt.Errorf("page id is required")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixChannel, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := biztime.NowUTC()
	return &Channel{
		SID:         sid,
		Source:      source,
		PageID:      pageID,
		Name:        norm.NFC.String(name),
		AccessToken: accessToken,
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ApplyLink refreshes the channel from a new successful link of the same
// external id: name, tokens and expiry are replaced, the channel is
// re-enabled.
func (c *Channel) ApplyLink(name, accessToken, refreshToken string, expiredDate *time.Time) {
	if name != "" {
		c.Name = norm.NFC.String(name)
	}
	c.AccessToken = accessToken
	c.RefreshToken = refreshToken
	c.ExpiredDate = expiredDate
	c.Enabled = true
	c.UpdatedAt = biztime.NowUTC()
}

// SetEnabled toggles whether inbound messages for this channel are processed.
func (c *Channel) SetEnabled(enabled bool) {
	c.Enabled = enabled
	c.UpdatedAt = biztime.NowUTC()
}

// IsTokenExpired reports whether the stored access token is past its expiry
// hint. Channels without an expiry hint never report expired.
func (c *Channel) IsTokenExpired(now time.Time) bool {
	return c.ExpiredDate != nil && now.After(*c.ExpiredDate)
}
