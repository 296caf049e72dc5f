package usecases

import (
	"context"
	"fmt"

	"github.com/miasolution2024/omniconnect/internal/application/integration/dto"
	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// GetIntegrationLogUseCase serves the operator drill-down for one audit
// entry, including the provider payload echoes.
type GetIntegrationLogUseCase struct {
	logRepo integration.LogRepository
	logger  logger.Interface
}

// NewGetIntegrationLogUseCase creates a new GetIntegrationLogUseCase
func NewGetIntegrationLogUseCase(logRepo integration.LogRepository, logger logger.Interface) *GetIntegrationLogUseCase {
	return &GetIntegrationLogUseCase{
		logRepo: logRepo,
		logger:  logger,
	}
}

// Execute executes the get integration log use case
func (uc *GetIntegrationLogUseCase) Execute(ctx context.Context, sid string) (*dto.LogResponse, error) {
	if sid == "" {
		return nil, errors.NewValidationError("log id is required")
	}

	l, err := uc.logRepo.GetBySID(ctx, sid)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to load integration log", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to load integration log: %w", err)
	}

	response := toLogResponse(l)
	return &response, nil
}
