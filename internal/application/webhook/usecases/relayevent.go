package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// RelayEventUseCase forwards provider webhook events to the downstream
// automation endpoint. Providers expect a fast 200 and retry aggressively on
// anything else, so the relay always accepts; delivery failures land in the
// integration log instead.
type RelayEventUseCase struct {
	settingRepo integration.SettingRepository
	logRepo     integration.LogRepository
	httpClient  *http.Client
	logger      logger.Interface
}

// NewRelayEventUseCase creates a new RelayEventUseCase
func NewRelayEventUseCase(
	settingRepo integration.SettingRepository,
	logRepo integration.LogRepository,
	httpClient *http.Client,
	logger logger.Interface,
) *RelayEventUseCase {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RelayEventUseCase{
		settingRepo: settingRepo,
		logRepo:     logRepo,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// Execute forwards one raw event body downstream. The returned event id
// correlates relay log lines with downstream processing.
func (uc *RelayEventUseCase) Execute(ctx context.Context, body []byte) (string, error) {
	eventID := uuid.NewString()

	settings, err := uc.settingRepo.GetCurrent(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load integration settings", "event_id", eventID, "error", err)
		return eventID, nil
	}
	if settings == nil || settings.DownstreamWebhookURL == "" {
		uc.logger.Debugw("no downstream webhook configured, dropping event", "event_id", eventID)
		return eventID, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.DownstreamWebhookURL, bytes.NewReader(body))
	if err != nil {
		uc.recordFailure(ctx, eventID, body, fmt.Errorf("failed to create relay request: %w", err))
		return eventID, nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-ID", eventID)

	resp, err := uc.httpClient.Do(req)
	if err != nil {
		uc.recordFailure(ctx, eventID, body, fmt.Errorf("failed to deliver event downstream: %w", err))
		return eventID, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		uc.recordFailure(ctx, eventID, body,
			fmt.Errorf("downstream responded %d: %s", resp.StatusCode, respBody))
		return eventID, nil
	}

	uc.logger.Debugw("webhook event relayed", "event_id", eventID, "status", resp.StatusCode)
	return eventID, nil
}

func (uc *RelayEventUseCase) recordFailure(ctx context.Context, eventID string, body []byte, cause error) {
	uc.logger.Errorw("webhook relay failed", "event_id", eventID, "error", cause)

	entry, err := integration.NewLog(integration.LogLevelError, "webhook relay failed", fmt.Sprintf("event_id=%s: %v", eventID, cause), nil)
	if err != nil {
		uc.logger.Errorw("failed to build relay failure log", "event_id", eventID, "error", err)
		return
	}
	if json.Valid(body) {
		entry.WithEcho(json.RawMessage(body), nil)
	}
	if err := uc.logRepo.Append(ctx, entry); err != nil {
		uc.logger.Errorw("failed to persist relay failure log", "event_id", eventID, "error", err)
	}
}
