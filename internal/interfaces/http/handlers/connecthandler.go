package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	connectdto "github.com/miasolution2024/omniconnect/internal/application/connect/dto"
	"github.com/miasolution2024/omniconnect/internal/application/connect/usecases"
	"github.com/miasolution2024/omniconnect/internal/interfaces/http/middleware"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

// ConnectHandler serves the channel linking flow: the browser-facing auth
// request and the provider redirect callback.
type ConnectHandler struct {
	initiateUC *usecases.InitiateChannelLinkUseCase
	callbackUC *usecases.HandleLinkCallbackUseCase
	logger     logger.Interface
}

func NewConnectHandler(
	initiateUC *usecases.InitiateChannelLinkUseCase,
	callbackUC *usecases.HandleLinkCallbackUseCase,
	logger logger.Interface,
) *ConnectHandler {
	return &ConnectHandler{
		initiateUC: initiateUC,
		callbackUC: callbackUC,
		logger:     logger,
	}
}

// InitiateAuth starts the linking flow for one provider and sends the
// browser to the provider consent dialog. Rejections redirect to the
// integration log entry instead of answering with an error status.
func (h *ConnectHandler) InitiateAuth(source string) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := connectdto.InitiateLinkRequest{
			Source: source,
			UserID: middleware.UserIDFromContext(c),
		}

		result := h.initiateUC.Execute(c.Request.Context(), request)
		c.Redirect(http.StatusFound, result.RedirectURL)
	}
}

// HandleCallback finishes the flow after the provider redirect. The outcome
// is always a redirect back to the admin frontend; errors live in the
// integration log, never in the response.
func (h *ConnectHandler) HandleCallback(source string) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := connectdto.CallbackRequest{
			Source:           source,
			State:            c.Query("state"),
			Code:             c.Query("code"),
			ErrorCode:        c.Query("error"),
			ErrorDescription: c.Query("error_description"),
		}
		// Facebook reports dialog denials under error_reason as well.
		if request.ErrorDescription == "" {
			request.ErrorDescription = c.Query("error_reason")
		}

		result := h.callbackUC.Execute(c.Request.Context(), request)
		c.Redirect(http.StatusFound, result.RedirectURL)
	}
}
