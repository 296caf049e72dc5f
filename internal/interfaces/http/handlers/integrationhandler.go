package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	integrationdto "github.com/miasolution2024/omniconnect/internal/application/integration/dto"
	"github.com/miasolution2024/omniconnect/internal/application/integration/usecases"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
	"github.com/miasolution2024/omniconnect/internal/shared/utils"
)

// IntegrationHandler serves the admin audit log and connector settings
// endpoints.
type IntegrationHandler struct {
	listLogsUC       *usecases.ListIntegrationLogsUseCase
	getLogUC         *usecases.GetIntegrationLogUseCase
	getSettingsUC    *usecases.GetSettingsUseCase
	updateSettingsUC *usecases.UpdateSettingsUseCase
	logger           logger.Interface
}

func NewIntegrationHandler(
	listLogsUC *usecases.ListIntegrationLogsUseCase,
	getLogUC *usecases.GetIntegrationLogUseCase,
	getSettingsUC *usecases.GetSettingsUseCase,
	updateSettingsUC *usecases.UpdateSettingsUseCase,
	logger logger.Interface,
) *IntegrationHandler {
	return &IntegrationHandler{
		listLogsUC:       listLogsUC,
		getLogUC:         getLogUC,
		getSettingsUC:    getSettingsUC,
		updateSettingsUC: updateSettingsUC,
		logger:           logger,
	}
}

// ListLogs returns the integration audit log, newest first.
func (h *IntegrationHandler) ListLogs(c *gin.Context) {
	var request integrationdto.ListLogsRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	responses, total, err := h.listLogsUC.Execute(c.Request.Context(), request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	page := request.Page
	if page <= 0 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	utils.PaginatedResponse(c, responses, total, page, pageSize)
}

// GetLog returns one audit entry including the provider payload echoes. This
// is the drill-down the failure redirect points at.
func (h *IntegrationHandler) GetLog(c *gin.Context) {
	response, err := h.getLogUC.Execute(c.Request.Context(), c.Param("sid"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", response)
}

// GetSettings returns the connector configuration with secrets masked.
func (h *IntegrationHandler) GetSettings(c *gin.Context) {
	response, err := h.getSettingsUC.Execute(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", response)
}

// UpdateSettings replaces the connector configuration.
func (h *IntegrationHandler) UpdateSettings(c *gin.Context) {
	var request integrationdto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.updateSettingsUC.Execute(c.Request.Context(), request); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "integration settings updated", nil)
}
