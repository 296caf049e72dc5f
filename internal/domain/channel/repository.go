package channel

import "context"

// ListFilter narrows channel listings.
type ListFilter struct {
	Source   *Source
	Enabled  *bool
	Page     int
	PageSize int
}

// Repository defines the interface for channel persistence.
type Repository interface {
	// GetByPageID retrieves a channel by its provider-assigned external id.
	// Returns nil (no error) when the channel is not linked yet.
	GetByPageID(ctx context.Context, source Source, pageID string) (*Channel, error)

	// GetBySID retrieves a channel by its public SID.
	GetBySID(ctx context.Context, sid string) (*Channel, error)

	// Upsert inserts the channel, or updates name/tokens/enabled/expiry in
	// place when a record with the same (source, page_id) already exists.
	Upsert(ctx context.Context, ch *Channel) error

	// Update persists changes to an existing channel.
	Update(ctx context.Context, ch *Channel) error

	// List returns channels matching the filter plus the total count.
	List(ctx context.Context, filter ListFilter) ([]*Channel, int64, error)
}
