package mappers

import (
	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/models"
)

// IntegrationSettingMapper provides methods for converting between domain and model
type IntegrationSettingMapper interface {
	ToDomain(model *models.IntegrationSettingModel) *integration.Setting
	ToModel(domain *integration.Setting) *models.IntegrationSettingModel
}

// IntegrationSettingMapperImpl implements IntegrationSettingMapper
type IntegrationSettingMapperImpl struct{}

// NewIntegrationSettingMapper creates a new IntegrationSettingMapper
func NewIntegrationSettingMapper() IntegrationSettingMapper {
	return &IntegrationSettingMapperImpl{}
}

// ToDomain converts an IntegrationSettingModel to a Setting domain entity
func (m *IntegrationSettingMapperImpl) ToDomain(model *models.IntegrationSettingModel) *integration.Setting {
	if model == nil {
		return nil
	}

	return &integration.Setting{
		ID:                   model.ID,
		FacebookAppID:        model.FacebookAppID,
		FacebookAppSecret:    model.FacebookAppSecret,
		FacebookScopes:       model.FacebookScopes,
		InstagramAppID:       model.InstagramAppID,
		InstagramAppSecret:   model.InstagramAppSecret,
		InstagramScopes:      model.InstagramScopes,
		ZaloAppID:            model.ZaloAppID,
		ZaloAppSecret:        model.ZaloAppSecret,
		PublicBaseURL:        model.PublicBaseURL,
		AdminURL:             model.AdminURL,
		WebhookVerifyToken:   model.WebhookVerifyToken,
		DownstreamWebhookURL: model.DownstreamWebhookURL,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

// ToModel converts a Setting domain entity to an IntegrationSettingModel
func (m *IntegrationSettingMapperImpl) ToModel(domain *integration.Setting) *models.IntegrationSettingModel {
	if domain == nil {
		return nil
	}

	return &models.IntegrationSettingModel{
		ID:                   domain.ID,
		FacebookAppID:        domain.FacebookAppID,
		FacebookAppSecret:    domain.FacebookAppSecret,
		FacebookScopes:       domain.FacebookScopes,
		InstagramAppID:       domain.InstagramAppID,
		InstagramAppSecret:   domain.InstagramAppSecret,
		InstagramScopes:      domain.InstagramScopes,
		ZaloAppID:            domain.ZaloAppID,
		ZaloAppSecret:        domain.ZaloAppSecret,
		PublicBaseURL:        domain.PublicBaseURL,
		AdminURL:             domain.AdminURL,
		WebhookVerifyToken:   domain.WebhookVerifyToken,
		DownstreamWebhookURL: domain.DownstreamWebhookURL,
		CreatedAt:            domain.CreatedAt,
		UpdatedAt:            domain.UpdatedAt,
	}
}
