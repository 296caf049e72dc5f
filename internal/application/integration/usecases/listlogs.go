package usecases

import (
	"context"
	"fmt"

	"github.com/miasolution2024/omniconnect/internal/application/integration/dto"
	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

const defaultPageSize = 20

// ListIntegrationLogsUseCase handles the admin audit log listing
type ListIntegrationLogsUseCase struct {
	logRepo integration.LogRepository
	logger  logger.Interface
}

// NewListIntegrationLogsUseCase creates a new ListIntegrationLogsUseCase
func NewListIntegrationLogsUseCase(logRepo integration.LogRepository, logger logger.Interface) *ListIntegrationLogsUseCase {
	return &ListIntegrationLogsUseCase{
		logRepo: logRepo,
		logger:  logger,
	}
}

// Execute executes the list integration logs use case
func (uc *ListIntegrationLogsUseCase) Execute(ctx context.Context, request dto.ListLogsRequest) ([]dto.LogResponse, int64, error) {
	filter := integration.LogListFilter{
		Page:     request.Page,
		PageSize: request.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}

	if request.Level != "" {
		level := integration.LogLevel(request.Level)
		if level != integration.LogLevelInfo && level != integration.LogLevelError {
			return nil, 0, errors.NewValidationError("unsupported log level: " + request.Level)
		}
		filter.Level = &level
	}

	logs, total, err := uc.logRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list integration logs", "error", err)
		return nil, 0, fmt.Errorf("failed to list integration logs: %w", err)
	}

	responses := make([]dto.LogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, toLogResponse(l))
	}

	return responses, total, nil
}

func toLogResponse(l *integration.Log) dto.LogResponse {
	return dto.LogResponse{
		ID:        l.SID,
		Level:     string(l.Level),
		Message:   l.Message,
		Context:   l.Context,
		UserID:    l.UserID,
		Request:   l.Request,
		Response:  l.Response,
		CreatedAt: l.CreatedAt,
	}
}
