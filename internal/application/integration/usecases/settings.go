package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/miasolution2024/omniconnect/internal/application/integration/dto"
	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
	"github.com/miasolution2024/omniconnect/internal/shared/utils"
)

// GetSettingsUseCase serves the connector configuration to the admin UI.
// Secrets come back masked.
type GetSettingsUseCase struct {
	settingRepo integration.SettingRepository
	logger      logger.Interface
}

// NewGetSettingsUseCase creates a new GetSettingsUseCase
func NewGetSettingsUseCase(settingRepo integration.SettingRepository, logger logger.Interface) *GetSettingsUseCase {
	return &GetSettingsUseCase{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// Execute executes the get settings use case
func (uc *GetSettingsUseCase) Execute(ctx context.Context) (*dto.SettingsResponse, error) {
	s, err := uc.settingRepo.GetCurrent(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load integration settings", "error", err)
		return nil, fmt.Errorf("failed to load integration settings: %w", err)
	}
	if s == nil {
		return nil, errors.NewNotFoundError("integration settings are not configured")
	}

	return &dto.SettingsResponse{
		FacebookAppID:        s.FacebookAppID,
		FacebookAppSecret:    utils.MaskToken(s.FacebookAppSecret),
		FacebookScopes:       s.FacebookScopes,
		InstagramAppID:       s.InstagramAppID,
		InstagramAppSecret:   utils.MaskToken(s.InstagramAppSecret),
		InstagramScopes:      s.InstagramScopes,
		ZaloAppID:            s.ZaloAppID,
		ZaloAppSecret:        utils.MaskToken(s.ZaloAppSecret),
		PublicBaseURL:        s.PublicBaseURL,
		AdminURL:             s.AdminURL,
		WebhookVerifyToken:   utils.MaskToken(s.WebhookVerifyToken),
		DownstreamWebhookURL: s.DownstreamWebhookURL,
		UpdatedAt:            s.UpdatedAt,
	}, nil
}

// AppWebhookConfigurer registers the app-level webhook callback with the
// provider after a settings change (Facebook only).
type AppWebhookConfigurer interface {
	ConfigureFacebookAppWebhook(ctx context.Context, settings *integration.Setting) error
}

// UpdateSettingsUseCase replaces the connector configuration. The row is a
// singleton: updates overwrite the current one.
type UpdateSettingsUseCase struct {
	settingRepo integration.SettingRepository
	configurer  AppWebhookConfigurer // Optional, can be nil
	logger      logger.Interface
}

// NewUpdateSettingsUseCase creates a new UpdateSettingsUseCase
func NewUpdateSettingsUseCase(settingRepo integration.SettingRepository, logger logger.Interface) *UpdateSettingsUseCase {
	return &UpdateSettingsUseCase{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// SetAppWebhookConfigurer sets the provider webhook configurer (optional
// dependency injection)
func (uc *UpdateSettingsUseCase) SetAppWebhookConfigurer(configurer AppWebhookConfigurer) {
	uc.configurer = configurer
}

// Execute executes the update settings use case
func (uc *UpdateSettingsUseCase) Execute(ctx context.Context, request dto.UpdateSettingsRequest) error {
	if !isHTTPURL(request.PublicBaseURL) {
		return errors.NewValidationError("public_base_url must be an absolute http(s) URL")
	}
	if !isHTTPURL(request.AdminURL) {
		return errors.NewValidationError("admin_url must be an absolute http(s) URL")
	}

	s := &integration.Setting{
		FacebookAppID:        request.FacebookAppID,
		FacebookAppSecret:    request.FacebookAppSecret,
		FacebookScopes:       request.FacebookScopes,
		InstagramAppID:       request.InstagramAppID,
		InstagramAppSecret:   request.InstagramAppSecret,
		InstagramScopes:      request.InstagramScopes,
		ZaloAppID:            request.ZaloAppID,
		ZaloAppSecret:        request.ZaloAppSecret,
		PublicBaseURL:        strings.TrimSuffix(request.PublicBaseURL, "/"),
		AdminURL:             strings.TrimSuffix(request.AdminURL, "/"),
		WebhookVerifyToken:   request.WebhookVerifyToken,
		DownstreamWebhookURL: request.DownstreamWebhookURL,
	}

	if err := uc.settingRepo.Upsert(ctx, s); err != nil {
		uc.logger.Errorw("failed to save integration settings", "error", err)
		return fmt.Errorf("failed to save integration settings: %w", err)
	}

	uc.logger.Infow("integration settings updated", "public_base_url", s.PublicBaseURL)

	// Settings are saved either way; a webhook registration failure surfaces
	// in the logs, not as a request error.
	if uc.configurer != nil && s.FacebookAppID != "" && s.WebhookVerifyToken != "" {
		if err := uc.configurer.ConfigureFacebookAppWebhook(ctx, s); err != nil {
			uc.logger.Warnw("failed to configure facebook app webhook", "error", err)
		} else {
			uc.logger.Infow("facebook app webhook configured", "callback_url", s.WebhookCallbackURL())
		}
	}

	return nil
}

func isHTTPURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
