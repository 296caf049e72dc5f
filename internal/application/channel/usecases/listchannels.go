package usecases

import (
	"context"
	"fmt"

	"github.com/miasolution2024/omniconnect/internal/application/channel/dto"
	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
	"github.com/miasolution2024/omniconnect/internal/shared/utils"
)

const defaultPageSize = 20

// ListChannelsUseCase handles the admin channel listing
type ListChannelsUseCase struct {
	channelRepo channel.Repository
	logger      logger.Interface
}

// NewListChannelsUseCase creates a new ListChannelsUseCase
func NewListChannelsUseCase(channelRepo channel.Repository, logger logger.Interface) *ListChannelsUseCase {
	return &ListChannelsUseCase{
		channelRepo: channelRepo,
		logger:      logger,
	}
}

// Execute executes the list channels use case
func (uc *ListChannelsUseCase) Execute(ctx context.Context, request dto.ListChannelsRequest) ([]dto.ChannelResponse, int64, error) {
	filter := channel.ListFilter{
		Enabled:  request.Enabled,
		Page:     request.Page,
		PageSize: request.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}

	if request.Source != "" {
		source := channel.Source(request.Source)
		if !source.IsValid() {
			return nil, 0, errors.NewValidationError("unsupported channel source: " + request.Source)
		}
		filter.Source = &source
	}

	channels, total, err := uc.channelRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list channels", "error", err)
		return nil, 0, fmt.Errorf("failed to list channels: %w", err)
	}

	responses := make([]dto.ChannelResponse, 0, len(channels))
	for _, ch := range channels {
		responses = append(responses, toChannelResponse(ch))
	}

	return responses, total, nil
}

func toChannelResponse(ch *channel.Channel) dto.ChannelResponse {
	return dto.ChannelResponse{
		ID:          ch.SID,
		Source:      string(ch.Source),
		PageID:      ch.PageID,
		Name:        ch.Name,
		AccessToken: utils.MaskToken(ch.AccessToken),
		Enabled:     ch.Enabled,
		ExpiredDate: ch.ExpiredDate,
		CreatedAt:   ch.CreatedAt,
		UpdatedAt:   ch.UpdatedAt,
	}
}
