package integration

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/miasolution2024/omniconnect/internal/shared/biztime"
	"github.com/miasolution2024/omniconnect/internal/shared/id"
)

// LogLevel is the severity of an integration log entry.
type LogLevel string

const (
	LogLevelInfo  LogLevel = "info"
	LogLevelError LogLevel = "error"
)

// Log is one append-only audit record of a linking-flow step. Error-level
// entries double as the operator-facing error detail view: the callback
// handlers redirect to the entry identified by SID.
type Log struct {
	ID      uint
	SID     string // Stripe-style ID: ilog_xxx
	Level   LogLevel
	Message string
	// Context carries free-text detail: a stack trace for errors, step
	// detail for info entries.
	Context string
	// UserID is the initiating operator, when known.
	UserID *uint
	// Request and Response echo the provider payloads involved in the step.
	Request  json.RawMessage
	Response json.RawMessage

	CreatedAt time.Time
}

// NewLog creates an audit entry. Message is required; everything else is
// optional detail.
func NewLog(level LogLevel, message, context string, userID *uint) (*Log, error) {
	if level != LogLevelInfo && level != LogLevelError {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixIntegrationLog, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	return &Log{
		SID:       sid,
		Level:     level,
		Message:   message,
		Context:   context,
		UserID:    userID,
		CreatedAt: biztime.NowUTC(),
	}, nil
}

// WithEcho attaches request/response payload echoes to the entry.
func (l *Log) WithEcho(request, response json.RawMessage) *Log {
	l.Request = request
	l.Response = response
	return l
}

// IsError reports whether this is an error-level entry.
func (l *Log) IsError() bool {
	return l.Level == LogLevelError
}
