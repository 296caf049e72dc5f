package mappers

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/models"
)

// IntegrationLogMapper provides methods for converting between domain and model
type IntegrationLogMapper interface {
	ToDomain(model *models.IntegrationLogModel) *integration.Log
	ToModel(domain *integration.Log) *models.IntegrationLogModel
	ToDomainList(modelList []*models.IntegrationLogModel) []*integration.Log
}

// IntegrationLogMapperImpl implements IntegrationLogMapper
type IntegrationLogMapperImpl struct{}

// NewIntegrationLogMapper creates a new IntegrationLogMapper
func NewIntegrationLogMapper() IntegrationLogMapper {
	return &IntegrationLogMapperImpl{}
}

// ToDomain converts an IntegrationLogModel to a Log domain entity
func (m *IntegrationLogMapperImpl) ToDomain(model *models.IntegrationLogModel) *integration.Log {
	if model == nil {
		return nil
	}

	return &integration.Log{
		ID:        model.ID,
		SID:       model.SID,
		Level:     integration.LogLevel(model.Level),
		Message:   model.Message,
		Context:   model.Context,
		UserID:    model.UserID,
		Request:   json.RawMessage(model.Request),
		Response:  json.RawMessage(model.Response),
		CreatedAt: model.CreatedAt,
	}
}

// ToModel converts a Log domain entity to an IntegrationLogModel
func (m *IntegrationLogMapperImpl) ToModel(domain *integration.Log) *models.IntegrationLogModel {
	if domain == nil {
		return nil
	}

	return &models.IntegrationLogModel{
		ID:        domain.ID,
		SID:       domain.SID,
		Level:     string(domain.Level),
		Message:   domain.Message,
		Context:   domain.Context,
		UserID:    domain.UserID,
		Request:   datatypes.JSON(domain.Request),
		Response:  datatypes.JSON(domain.Response),
		CreatedAt: domain.CreatedAt,
	}
}

// ToDomainList converts a list of IntegrationLogModel to a list of Log domain entities
func (m *IntegrationLogMapperImpl) ToDomainList(modelList []*models.IntegrationLogModel) []*integration.Log {
	if modelList == nil {
		return nil
	}

	domains := make([]*integration.Log, 0, len(modelList))
	for _, model := range modelList {
		if domain := m.ToDomain(model); domain != nil {
			domains = append(domains, domain)
		}
	}

	return domains
}
