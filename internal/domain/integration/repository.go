package integration

import "context"

// SettingRepository defines the interface for connector settings persistence.
type SettingRepository interface {
	// GetCurrent retrieves the active settings row. Returns nil (no error)
	// when the connector has never been configured.
	GetCurrent(ctx context.Context) (*Setting, error)

	// Upsert creates or replaces the settings row.
	Upsert(ctx context.Context, s *Setting) error
}

// LogListFilter narrows integration log listings.
type LogListFilter struct {
	Level    *LogLevel
	Page     int
	PageSize int
}

// LogRepository defines the interface for the append-only audit log.
// Entries are never mutated or deleted by the linking flow.
type LogRepository interface {
	// Append persists a new entry and fills in its generated ID.
	Append(ctx context.Context, l *Log) error

	// GetBySID retrieves a single entry by its public SID.
	GetBySID(ctx context.Context, sid string) (*Log, error)

	// List returns entries matching the filter, newest first, plus the
	// total count.
	List(ctx context.Context, filter LogListFilter) ([]*Log, int64, error)
}
