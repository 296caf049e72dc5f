package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/miasolution2024/omniconnect/internal/application/connect/dto"
	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// InitiateChannelLinkUseCase builds the provider authorization URL and parks
// the flow context until the callback arrives. Like the callback, the outcome
// is always a redirect: rejections land in the integration log and the
// browser is sent to the entry's detail view.
type InitiateChannelLinkUseCase struct {
	settingRepo integration.SettingRepository
	factory     channel.ConnectorFactory
	sessions    SessionStore
	pkce        PKCEGenerator
	audit       *AuditLogger
	// fallbackRedirectURL is used when settings are unreadable and no admin
	// URL is known.
	fallbackRedirectURL string
	logger              logger.Interface
}

// NewInitiateChannelLinkUseCase creates a new InitiateChannelLinkUseCase
func NewInitiateChannelLinkUseCase(
	settingRepo integration.SettingRepository,
	factory channel.ConnectorFactory,
	sessions SessionStore,
	pkce PKCEGenerator,
	audit *AuditLogger,
	fallbackRedirectURL string,
	logger logger.Interface,
) *InitiateChannelLinkUseCase {
	return &InitiateChannelLinkUseCase{
		settingRepo:         settingRepo,
		factory:             factory,
		sessions:            sessions,
		pkce:                pkce,
		audit:               audit,
		fallbackRedirectURL: fallbackRedirectURL,
		logger:              logger,
	}
}

// Execute executes the initiate channel link use case
func (uc *InitiateChannelLinkUseCase) Execute(ctx context.Context, request dto.InitiateLinkRequest) *dto.InitiateLinkResult {
	uc.logger.Infow("initiating channel link", "source", request.Source)

	settings, err := uc.settingRepo.GetCurrent(ctx)
	if err != nil || settings == nil {
		if err != nil {
			uc.logger.Errorw("failed to load integration settings", "error", err)
		}
		uc.audit.Error(ctx, "link request received without usable integration settings",
			"source="+request.Source, request.UserID, uc.requestEcho(request), nil)
		return &dto.InitiateLinkResult{RedirectURL: uc.fallbackRedirectURL}
	}

	authURL, state, err := uc.begin(ctx, settings, request)
	if err != nil {
		return uc.fail(ctx, settings, request, err)
	}

	uc.logger.Infow("channel link initiated", "source", request.Source, "state", state)

	return &dto.InitiateLinkResult{
		RedirectURL: authURL,
		State:       state,
	}
}

// begin validates the request and builds the provider authorization URL.
func (uc *InitiateChannelLinkUseCase) begin(ctx context.Context, settings *integration.Setting, request dto.InitiateLinkRequest) (string, string, error) {
	source := channel.Source(request.Source)
	if !source.IsValid() {
		return "", "", errors.NewValidationError("unsupported channel source: " + request.Source)
	}

	connector, err := uc.factory.ForSource(settings, source)
	if err != nil {
		return "", "", err
	}

	state := uuid.NewString()

	session := LinkSession{
		Source: string(source),
		UserID: request.UserID,
	}

	var codeChallenge string
	if connector.RequiresPKCE() {
		verifier, challenge, err := uc.pkce()
		if err != nil {
			return "", "", fmt.Errorf("failed to generate pkce pair: %w", err)
		}
		session.CodeVerifier = verifier
		codeChallenge = challenge
	}

	if err := uc.sessions.Save(ctx, state, session); err != nil {
		return "", "", fmt.Errorf("failed to save link session: %w", err)
	}

	return connector.BuildAuthURL(state, codeChallenge), state, nil
}

// fail writes the rejection to the integration log and points the browser at
// the entry's detail view.
func (uc *InitiateChannelLinkUseCase) fail(ctx context.Context, settings *integration.Setting, request dto.InitiateLinkRequest, err error) *dto.InitiateLinkResult {
	uc.logger.Errorw("channel link rejected", "source", request.Source, "error", err)

	message := fmt.Sprintf("%s channel link rejected before the provider dialog", request.Source)
	entry := uc.audit.Error(ctx, message, err.Error(), request.UserID, uc.requestEcho(request), nil)

	redirectURL := settings.LogListURL()
	logSID := ""
	if entry != nil {
		logSID = entry.SID
		redirectURL = settings.LogDetailURL(entry.SID)
	}

	return &dto.InitiateLinkResult{
		RedirectURL: redirectURL,
		LogSID:      logSID,
	}
}

// requestEcho captures the auth request parameters for the audit trail.
func (uc *InitiateChannelLinkUseCase) requestEcho(request dto.InitiateLinkRequest) json.RawMessage {
	echo, err := json.Marshal(map[string]string{"source": request.Source})
	if err != nil {
		return nil
	}
	return echo
}
