package usecases

import (
	"context"
	"encoding/json"

	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// AuditLogger appends linking-flow events to the integration log. Audit
// failures are logged and swallowed: a broken audit trail must not break the
// flow it documents.
type AuditLogger struct {
	logRepo integration.LogRepository
	logger  logger.Interface
}

// NewAuditLogger creates a new AuditLogger
func NewAuditLogger(logRepo integration.LogRepository, logger logger.Interface) *AuditLogger {
	return &AuditLogger{
		logRepo: logRepo,
		logger:  logger,
	}
}

// Info appends an info-level entry.
func (a *AuditLogger) Info(ctx context.Context, message, detail string, userID *uint, request, response json.RawMessage) *integration.Log {
	return a.append(ctx, integration.LogLevelInfo, message, detail, userID, request, response)
}

// Error appends an error-level entry. The returned entry's SID is what the
// callback redirect points the operator at.
func (a *AuditLogger) Error(ctx context.Context, message, detail string, userID *uint, request, response json.RawMessage) *integration.Log {
	return a.append(ctx, integration.LogLevelError, message, detail, userID, request, response)
}

func (a *AuditLogger) append(ctx context.Context, level integration.LogLevel, message, detail string, userID *uint, request, response json.RawMessage) *integration.Log {
	entry, err := integration.NewLog(level, message, detail, userID)
	if err != nil {
		a.logger.Errorw("failed to build integration log entry", "message", message, "error", err)
		return nil
	}
	entry.WithEcho(request, response)

	if err := a.logRepo.Append(ctx, entry); err != nil {
		a.logger.Errorw("failed to persist integration log entry", "sid", entry.SID, "error", err)
		return nil
	}

	return entry
}
