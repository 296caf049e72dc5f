package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	channeldto "github.com/miasolution2024/omniconnect/internal/application/channel/dto"
	"github.com/miasolution2024/omniconnect/internal/application/channel/usecases"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
	"github.com/miasolution2024/omniconnect/internal/shared/utils"
)

// ChannelHandler serves the admin channel listing and toggle endpoints.
type ChannelHandler struct {
	listUC       *usecases.ListChannelsUseCase
	setEnabledUC *usecases.SetChannelEnabledUseCase
	logger       logger.Interface
}

func NewChannelHandler(
	listUC *usecases.ListChannelsUseCase,
	setEnabledUC *usecases.SetChannelEnabledUseCase,
	logger logger.Interface,
) *ChannelHandler {
	return &ChannelHandler{
		listUC:       listUC,
		setEnabledUC: setEnabledUC,
		logger:       logger,
	}
}

// ListChannels returns the linked channels, paginated and optionally
// filtered by source or enabled state.
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	var request channeldto.ListChannelsRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	responses, total, err := h.listUC.Execute(c.Request.Context(), request)
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

// SetChannelEnabled toggles message processing for one channel.
func (h *ChannelHandler) SetChannelEnabled(c *gin.Context) {
	var request channeldto.SetChannelEnabledRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	request.SID = c.Param("sid")

	response, err := h.setEnabledUC.Execute(c.Request.Context(), request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "channel updated", response)
}
