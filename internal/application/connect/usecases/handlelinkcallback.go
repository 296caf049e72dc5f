package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/miasolution2024/omniconnect/internal/application/connect/dto"
	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/shared/biztime"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
	"github.com/miasolution2024/omniconnect/internal/shared/utils"
)

// linkStep names the stage of the callback flow an error happened in.
type linkStep string

const (
	stepAwaitingCode       linkStep = "awaiting_code"
	stepExchangingToken    linkStep = "exchanging_token"
	stepFetchingAccounts   linkStep = "fetching_accounts"
	stepSubscribingWebhook linkStep = "subscribing_webhook"
	stepPersistingChannel  linkStep = "persisting_channel"
)

// flowError carries a step failure out of the run loop to the single audit
// boundary in Execute.
type flowError struct {
	step linkStep
	err  error
}

func (e *flowError) Error() string {
	return fmt.Sprintf("%s: %v", e.step, e.err)
}

// HandleLinkCallbackUseCase completes a channel link after the provider
// redirect. Whatever happens, the outcome is a redirect: success lands on the
// channel list, failure on the integration log entry holding the detail.
type HandleLinkCallbackUseCase struct {
	settingRepo integration.SettingRepository
	channelRepo channel.Repository
	factory     channel.ConnectorFactory
	sessions    SessionStore
	audit       *AuditLogger
	notifier    FailureNotifier // Optional, can be nil
	// fallbackRedirectURL is used when settings are unreadable and no admin
	// URL is known.
	fallbackRedirectURL string
	logger              logger.Interface
}

// NewHandleLinkCallbackUseCase creates a new HandleLinkCallbackUseCase
func NewHandleLinkCallbackUseCase(
	settingRepo integration.SettingRepository,
	channelRepo channel.Repository,
	factory channel.ConnectorFactory,
	sessions SessionStore,
	audit *AuditLogger,
	fallbackRedirectURL string,
	logger logger.Interface,
) *HandleLinkCallbackUseCase {
	return &HandleLinkCallbackUseCase{
		settingRepo:         settingRepo,
		channelRepo:         channelRepo,
		factory:             factory,
		sessions:            sessions,
		audit:               audit,
		fallbackRedirectURL: fallbackRedirectURL,
		logger:              logger,
	}
}

// SetFailureNotifier sets the alert notifier (optional dependency injection)
func (uc *HandleLinkCallbackUseCase) SetFailureNotifier(notifier FailureNotifier) {
	uc.notifier = notifier
}

// Execute executes the handle link callback use case
func (uc *HandleLinkCallbackUseCase) Execute(ctx context.Context, request dto.CallbackRequest) *dto.CallbackResult {
	uc.logger.Infow("handling link callback", "source", request.Source, "state", request.State)

	settings, err := uc.settingRepo.GetCurrent(ctx)
	if err != nil || settings == nil {
		if err != nil {
			uc.logger.Errorw("failed to load integration settings", "error", err)
		}
		uc.audit.Error(ctx, "link callback received without usable integration settings", request.Source, nil, uc.requestEcho(request), nil)
		return &dto.CallbackResult{RedirectURL: uc.fallbackRedirectURL}
	}

	linked, userID, ferr := uc.run(ctx, settings, request)
	if ferr != nil {
		return uc.fail(ctx, settings, request, userID, linked, ferr)
	}

	detail := fmt.Sprintf("source=%s linked_pages=%d", request.Source, len(linked))
	response, _ := json.Marshal(map[string]interface{}{"pages": linked})
	uc.audit.Info(ctx, "channel link completed", detail, userID, uc.requestEcho(request), response)

	uc.logger.Infow("channel link completed", "source", request.Source, "pages", linked)

	return &dto.CallbackResult{
		RedirectURL: settings.ChannelListURL(),
		LinkedPages: linked,
	}
}

// run walks the flow steps, writing an info audit entry per completed step
// and returning the pages persisted so far plus the first failure. Pages
// linked before a failure stay linked.
func (uc *HandleLinkCallbackUseCase) run(ctx context.Context, settings *integration.Setting, request dto.CallbackRequest) ([]string, *uint, *flowError) {
	if request.ErrorCode != "" {
		return nil, nil, &flowError{stepAwaitingCode,
			fmt.Errorf("provider aborted the flow: %s (%s)", request.ErrorCode, request.ErrorDescription)}
	}
	if request.Code == "" {
		return nil, nil, &flowError{stepAwaitingCode, errors.New("callback carried no authorization code")}
	}

	session, err := uc.sessions.Take(ctx, request.State)
	if err != nil {
		return nil, nil, &flowError{stepAwaitingCode, fmt.Errorf("state rejected: %w", err)}
	}
	if session.Source != request.Source {
		return nil, session.UserID, &flowError{stepAwaitingCode,
			fmt.Errorf("state belongs to %s, callback came from %s", session.Source, request.Source)}
	}

	source := channel.Source(request.Source)
	connector, err := uc.factory.ForSource(settings, source)
	if err != nil {
		return nil, session.UserID, &flowError{stepAwaitingCode, err}
	}

	tokens, err := connector.Exchange(ctx, request.Code, session.CodeVerifier)
	if err != nil {
		return nil, session.UserID, &flowError{stepExchangingToken, err}
	}
	uc.audit.Info(ctx, "authorization code exchanged",
		fmt.Sprintf("source=%s access_token=%s", request.Source, utils.MaskToken(tokens.AccessToken)),
		session.UserID, nil, nil)

	accounts, err := connector.FetchAccounts(ctx, tokens)
	if err != nil {
		return nil, session.UserID, &flowError{stepFetchingAccounts, err}
	}
	if len(accounts) == 0 {
		return nil, session.UserID, &flowError{stepFetchingAccounts, errors.New("no linkable pages on this account")}
	}
	uc.audit.Info(ctx, "linked accounts fetched",
		fmt.Sprintf("source=%s pages=%d", request.Source, len(accounts)),
		session.UserID, nil, nil)

	var linked []string
	for _, account := range accounts {
		if err := connector.Subscribe(ctx, account); err != nil {
			return linked, session.UserID, &flowError{stepSubscribingWebhook,
				fmt.Errorf("page %s: %w", account.PageID, err)}
		}
		uc.audit.Info(ctx, "webhook subscribed",
			fmt.Sprintf("source=%s page_id=%s", request.Source, account.PageID),
			session.UserID, nil, nil)

		existing, err := uc.channelRepo.GetByPageID(ctx, source, account.PageID)
		if err != nil {
			return linked, session.UserID, &flowError{stepPersistingChannel,
				fmt.Errorf("page %s: %w", account.PageID, err)}
		}

		ch, err := channel.NewChannel(source, account.PageID, account.Name, account.AccessToken)
		if err != nil {
			return linked, session.UserID, &flowError{stepPersistingChannel, err}
		}
		ch.RefreshToken = tokens.RefreshToken
		if expiry := tokenExpiry(source, tokens); expiry != nil {
			ch.ExpiredDate = expiry
		}

		if err := uc.channelRepo.Upsert(ctx, ch); err != nil {
			return linked, session.UserID, &flowError{stepPersistingChannel,
				fmt.Errorf("page %s: %w", account.PageID, err)}
		}

		persistMessage := "channel linked"
		if existing != nil {
			persistMessage = "channel relinked"
		}
		uc.audit.Info(ctx, persistMessage,
			fmt.Sprintf("source=%s page_id=%s name=%s access_token=%s",
				request.Source, account.PageID, account.Name, utils.MaskToken(account.AccessToken)),
			session.UserID, nil, nil)

		uc.logger.Infow(persistMessage,
			"source", source,
			"page_id", account.PageID,
			"name", account.Name,
			"access_token", utils.MaskToken(account.AccessToken))
		linked = append(linked, account.PageID)
	}

	return linked, session.UserID, nil
}

// fail is the single error boundary: one audit entry, one optional alert,
// one redirect to the entry's detail view.
func (uc *HandleLinkCallbackUseCase) fail(ctx context.Context, settings *integration.Setting, request dto.CallbackRequest, userID *uint, linked []string, ferr *flowError) *dto.CallbackResult {
	uc.logger.Errorw("channel link failed",
		"source", request.Source,
		"step", ferr.step,
		"linked_before_failure", linked,
		"error", ferr.err)

	message := fmt.Sprintf("%s channel link failed while %s", request.Source, ferr.step)
	detail := ferr.Error()
	if len(linked) > 0 {
		detail = fmt.Sprintf("%s (pages linked before failure: %v)", detail, linked)
	}

	entry := uc.audit.Error(ctx, message, detail, userID, uc.requestEcho(request), providerPayload(ferr.err))

	redirectURL := settings.LogListURL()
	logSID := ""
	if entry != nil {
		logSID = entry.SID
		redirectURL = settings.LogDetailURL(entry.SID)
	}

	if uc.notifier != nil {
		if err := uc.notifier.SendLinkFailureAlert(request.Source, message, redirectURL); err != nil {
			uc.logger.Warnw("failed to send link failure alert", "source", request.Source, "error", err)
		}
	}

	return &dto.CallbackResult{
		RedirectURL: redirectURL,
		LinkedPages: linked,
		LogSID:      logSID,
	}
}

// requestEcho captures the callback parameters for the audit trail. The
// authorization code is single-use and short-lived but still masked.
func (uc *HandleLinkCallbackUseCase) requestEcho(request dto.CallbackRequest) json.RawMessage {
	echo, err := json.Marshal(map[string]string{
		"source": request.Source,
		"state":  request.State,
		"code":   utils.MaskToken(request.Code),
		"error":  request.ErrorCode,
	})
	if err != nil {
		return nil
	}
	return echo
}

// providerPayload pulls the raw provider response out of an API error chain.
func providerPayload(err error) json.RawMessage {
	var pe interface{ Payload() []byte }
	if errors.As(err, &pe) {
		return json.RawMessage(pe.Payload())
	}
	return nil
}

// tokenExpiry derives the stored token expiry. Facebook page tokens obtained
// via /me/accounts do not expire, so the long-lived user token hint is not
// carried over.
func tokenExpiry(source channel.Source, tokens *channel.TokenSet) *time.Time {
	if source == channel.SourceFacebook || tokens.ExpiresIn <= 0 {
		return nil
	}
	expiry := biztime.NowUTC().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	return &expiry
}
