package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/mappers"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/models"
	apperrors "github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// IntegrationLogRepository implements integration.LogRepository
type IntegrationLogRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.IntegrationLogMapper
}

// NewIntegrationLogRepository creates a new IntegrationLogRepository
func NewIntegrationLogRepository(db *gorm.DB, logger logger.Interface) integration.LogRepository {
	return &IntegrationLogRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewIntegrationLogMapper(),
	}
}

// Append persists a new audit entry and fills in its generated ID
func (r *IntegrationLogRepository) Append(ctx context.Context, l *integration.Log) error {
	model := r.mapper.ToModel(l)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Error("failed to append integration log", "sid", l.SID, "error", err)
		return fmt.Errorf("failed to append integration log: %w", err)
	}

	l.ID = model.ID
	return nil
}

// GetBySID retrieves a single entry by its public SID
func (r *IntegrationLogRepository) GetBySID(ctx context.Context, sid string) (*integration.Log, error) {
	var model models.IntegrationLogModel

	err := r.db.WithContext(ctx).
		Where("sid = ?", sid).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("integration log not found")
		}
		r.logger.Error("failed to get integration log by sid", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get integration log by sid: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

// List returns entries matching the filter, newest first, plus the total count
func (r *IntegrationLogRepository) List(ctx context.Context, filter integration.LogListFilter) ([]*integration.Log, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.IntegrationLogModel{})

	if filter.Level != nil {
		query = query.Where("level = ?", *filter.Level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("failed to count integration logs", "error", err)
		return nil, 0, fmt.Errorf("failed to count integration logs: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var modelList []*models.IntegrationLogModel
	if err := query.Order("created_at DESC, id DESC").Find(&modelList).Error; err != nil {
		r.logger.Error("failed to list integration logs", "error", err)
		return nil, 0, fmt.Errorf("failed to list integration logs: %w", err)
	}

	return r.mapper.ToDomainList(modelList), total, nil
}
