package mappers

import (
	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/models"
)

// OmniChannelMapper provides methods for converting between domain and model
type OmniChannelMapper interface {
	ToDomain(model *models.OmniChannelModel) *channel.Channel
	ToModel(domain *channel.Channel) *models.OmniChannelModel
	ToDomainList(modelList []*models.OmniChannelModel) []*channel.Channel
}

// OmniChannelMapperImpl implements OmniChannelMapper
type OmniChannelMapperImpl struct{}

// NewOmniChannelMapper creates a new OmniChannelMapper
func NewOmniChannelMapper() OmniChannelMapper {
	return &OmniChannelMapperImpl{}
}

// ToDomain converts an OmniChannelModel to a Channel domain entity
func (m *OmniChannelMapperImpl) ToDomain(model *models.OmniChannelModel) *channel.Channel {
	if model == nil {
		return nil
	}

	return &channel.Channel{
		ID:           model.ID,
		SID:          model.SID,
		Source:       channel.Source(model.Source),
		PageID:       model.PageID,
		Name:         model.Name,
		AccessToken:  model.AccessToken,
		RefreshToken: model.RefreshToken,
		Enabled:      model.Enabled,
		ExpiredDate:  model.ExpiredDate,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// ToModel converts a Channel domain entity to an OmniChannelModel
func (m *OmniChannelMapperImpl) ToModel(domain *channel.Channel) *models.OmniChannelModel {
	if domain == nil {
		return nil
	}

	return &models.OmniChannelModel{
		ID:           domain.ID,
		SID:          domain.SID,
		Source:       string(domain.Source),
		PageID:       domain.PageID,
		Name:         domain.Name,
		AccessToken:  domain.AccessToken,
		RefreshToken: domain.RefreshToken,
		Enabled:      domain.Enabled,
		ExpiredDate:  domain.ExpiredDate,
		CreatedAt:    domain.CreatedAt,
		UpdatedAt:    domain.UpdatedAt,
	}
}

// ToDomainList converts a list of OmniChannelModel to a list of Channel domain entities
func (m *OmniChannelMapperImpl) ToDomainList(modelList []*models.OmniChannelModel) []*channel.Channel {
	if modelList == nil {
		return nil
	}

	domains := make([]*channel.Channel, 0, len(modelList))
	for _, model := range modelList {
		if domain := m.ToDomain(model); domain != nil {
			domains = append(domains, domain)
		}
	}

	return domains
}
