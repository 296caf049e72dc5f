package usecases

import (
	"context"
	"fmt"

	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// VerifyWebhookUseCase answers the provider webhook handshake: echo the
// challenge when the verify token matches the configured one.
type VerifyWebhookUseCase struct {
	settingRepo integration.SettingRepository
	logger      logger.Interface
}

// NewVerifyWebhookUseCase creates a new VerifyWebhookUseCase
func NewVerifyWebhookUseCase(settingRepo integration.SettingRepository, logger logger.Interface) *VerifyWebhookUseCase {
	return &VerifyWebhookUseCase{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// Execute validates the handshake and returns the challenge to echo back.
func (uc *VerifyWebhookUseCase) Execute(ctx context.Context, mode, verifyToken, challenge string) (string, error) {
	if mode != "subscribe" {
		return "", errors.NewBadRequestError("unsupported hub.mode: " + mode)
	}

	settings, err := uc.settingRepo.GetCurrent(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load integration settings", "error", err)
		return "", fmt.Errorf("failed to load integration settings: %w", err)
	}
	if settings == nil || settings.WebhookVerifyToken == "" {
		return "", errors.NewUnauthorizedError("webhook verification is not configured")
	}

	if verifyToken != settings.WebhookVerifyToken {
		uc.logger.Warnw("webhook verification rejected: token mismatch")
		return "", errors.NewUnauthorizedError("verify token mismatch")
	}

	uc.logger.Infow("webhook verification accepted")
	return challenge, nil
}
