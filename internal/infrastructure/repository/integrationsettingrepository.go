package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/mappers"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/models"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// IntegrationSettingRepository implements integration.SettingRepository
type IntegrationSettingRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.IntegrationSettingMapper
}

// NewIntegrationSettingRepository creates a new IntegrationSettingRepository
func NewIntegrationSettingRepository(db *gorm.DB, logger logger.Interface) integration.SettingRepository {
	return &IntegrationSettingRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewIntegrationSettingMapper(),
	}
}

// GetCurrent retrieves the active settings row. A deployment that was never
// configured has no row; that is not an error.
func (r *IntegrationSettingRepository) GetCurrent(ctx context.Context) (*integration.Setting, error) {
	var model models.IntegrationSettingModel

	err := r.db.WithContext(ctx).
		Order("id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get integration settings", "error", err)
		return nil, fmt.Errorf("failed to get integration settings: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

// Upsert creates or replaces the settings row
func (r *IntegrationSettingRepository) Upsert(ctx context.Context, s *integration.Setting) error {
	model := r.mapper.ToModel(s)

	// Keep the table a singleton: reuse the existing row's id when present.
	if model.ID == 0 {
		var existing models.IntegrationSettingModel
		err := r.db.WithContext(ctx).Order("id ASC").First(&existing).Error
		if err == nil {
			model.ID = existing.ID
			model.CreatedAt = existing.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Error("failed to look up integration settings", "error", err)
			return fmt.Errorf("failed to look up integration settings: %w", err)
		}
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		r.logger.Error("failed to upsert integration settings", "error", err)
		return fmt.Errorf("failed to upsert integration settings: %w", err)
	}

	s.ID = model.ID
	return nil
}
