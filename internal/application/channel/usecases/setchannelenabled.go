package usecases

import (
	"context"
	"fmt"

	"github.com/miasolution2024/omniconnect/internal/application/channel/dto"
	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// SetChannelEnabledUseCase toggles message processing for a linked channel
// without touching its credentials.
type SetChannelEnabledUseCase struct {
	channelRepo channel.Repository
	logger      logger.Interface
}

// NewSetChannelEnabledUseCase creates a new SetChannelEnabledUseCase
func NewSetChannelEnabledUseCase(channelRepo channel.Repository, logger logger.Interface) *SetChannelEnabledUseCase {
	return &SetChannelEnabledUseCase{
		channelRepo: channelRepo,
		logger:      logger,
	}
}

// Execute executes the set channel enabled use case
func (uc *SetChannelEnabledUseCase) Execute(ctx context.Context, request dto.SetChannelEnabledRequest) (*dto.ChannelResponse, error) {
	if request.SID == "" {
		return nil, errors.NewValidationError("channel id is required")
	}

	ch, err := uc.channelRepo.GetBySID(ctx, request.SID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to load channel", "sid", request.SID, "error", err)
		return nil, fmt.Errorf("failed to load channel: %w", err)
	}

	ch.SetEnabled(request.Enabled)

	if err := uc.channelRepo.Update(ctx, ch); err != nil {
		uc.logger.Errorw("failed to update channel", "sid", request.SID, "error", err)
		return nil, fmt.Errorf("failed to update channel: %w", err)
	}

	uc.logger.Infow("channel toggled", "sid", request.SID, "enabled", request.Enabled)

	response := toChannelResponse(ch)
	return &response, nil
}
