package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miasolution2024/omniconnect/internal/application/webhook/usecases"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
	"github.com/miasolution2024/omniconnect/internal/shared/utils"
)

// WebhookHandler serves the provider-facing webhook endpoint: the GET
// verification handshake and the POST event relay.
type WebhookHandler struct {
	verifyUC *usecases.VerifyWebhookUseCase
	relayUC  *usecases.RelayEventUseCase
	logger   logger.Interface
}

func NewWebhookHandler(
	verifyUC *usecases.VerifyWebhookUseCase,
	relayUC *usecases.RelayEventUseCase,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		verifyUC: verifyUC,
		relayUC:  relayUC,
		logger:   logger,
	}
}

// Verify answers the provider subscription handshake by echoing
// hub.challenge when the verify token matches.
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, err := h.verifyUC.Execute(
		c.Request.Context(),
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
	)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	c.String(http.StatusOK, challenge)
}

// Receive accepts a provider event push. The response is always 200:
// providers retry on anything else, and a broken downstream is our problem,
// not theirs.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err)
		c.String(http.StatusOK, "EVENT_RECEIVED")
		return
	}

	if _, err := h.relayUC.Execute(c.Request.Context(), body); err != nil {
		h.logger.Errorw("webhook relay failed", "error", err)
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}
