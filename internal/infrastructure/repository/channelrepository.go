package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/mappers"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/models"
	apperrors "github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// ChannelRepository implements channel.Repository
type ChannelRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.OmniChannelMapper
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(db *gorm.DB, logger logger.Interface) channel.Repository {
	return &ChannelRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewOmniChannelMapper(),
	}
}

// GetByPageID retrieves a channel by its provider-assigned external id.
// A missing row is not an error: the caller decides between insert and update.
func (r *ChannelRepository) GetByPageID(ctx context.Context, source channel.Source, pageID string) (*channel.Channel, error) {
	var model models.OmniChannelModel

	err := r.db.WithContext(ctx).
		Where("source = ? AND page_id = ?", source, pageID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get channel by page id", "source", source, "page_id", pageID, "error", err)
		return nil, fmt.Errorf("failed to get channel by page id: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

// GetBySID retrieves a channel by its public SID
func (r *ChannelRepository) GetBySID(ctx context.Context, sid string) (*channel.Channel, error) {
	var model models.OmniChannelModel

	err := r.db.WithContext(ctx).
		Where("sid = ?", sid).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("channel not found")
		}
		r.logger.Error("failed to get channel by sid", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get channel by sid: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

// Upsert inserts the channel, or refreshes name, tokens, enabled flag and
// expiry when a row with the same (source, page_id) already exists. Relinking
// keeps the original sid and created_at.
func (r *ChannelRepository) Upsert(ctx context.Context, ch *channel.Channel) error {
	model := r.mapper.ToModel(ch)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source"}, {Name: "page_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "access_token", "refresh_token", "enabled", "expired_date", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		r.logger.Error("failed to upsert channel", "source", ch.Source, "page_id", ch.PageID, "error", err)
		return fmt.Errorf("failed to upsert channel: %w", err)
	}

	if ch.ID == 0 {
		ch.ID = model.ID
	}

	return nil
}

// Update persists changes to an existing channel
func (r *ChannelRepository) Update(ctx context.Context, ch *channel.Channel) error {
	if ch.ID == 0 {
		return apperrors.NewValidationError("channel id is required for update")
	}

	model := r.mapper.ToModel(ch)

	result := r.db.WithContext(ctx).
		Model(&models.OmniChannelModel{}).
		Where("id = ?", ch.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"access_token":  model.AccessToken,
			"refresh_token": model.RefreshToken,
			"enabled":       model.Enabled,
			"expired_date":  model.ExpiredDate,
		})
	if result.Error != nil {
		r.logger.Error("failed to update channel", "id", ch.ID, "error", result.Error)
		return fmt.Errorf("failed to update channel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("channel not found")
	}

	return nil
}

// List returns channels matching the filter plus the total count
func (r *ChannelRepository) List(ctx context.Context, filter channel.ListFilter) ([]*channel.Channel, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OmniChannelModel{})

	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.Enabled != nil {
		query = query.Where("enabled = ?", *filter.Enabled)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("failed to count channels", "error", err)
		return nil, 0, fmt.Errorf("failed to count channels: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var modelList []*models.OmniChannelModel
	if err := query.Order("created_at DESC").Find(&modelList).Error; err != nil {
		r.logger.Error("failed to list channels", "error", err)
		return nil, 0, fmt.Errorf("failed to list channels: %w", err)
	}

	return r.mapper.ToDomainList(modelList), total, nil
}
