package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/dto"
	"github.com/SscSPs/family_finance_agent/internal/middleware"
)

// statusCoder is implemented by upstream failures that carry an HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// gatewayHandler relays chat completions from the model provider.
type gatewayHandler struct {
	gateway portssvc.GatewaySvc
}

func registerGatewayRoutes(rg *gin.RouterGroup, gateway portssvc.GatewaySvc) {
	h := &gatewayHandler{gateway: gateway}
	rg.POST("/chat", h.chat)
}

// chat godoc
// @Summary Stream a chat completion
// @Description Adds the agent system prompt to the conversation and streams the provider's
// @Description reply as delta frames terminated by "data: [DONE]".
// @Tags gateway
// @Accept json
// @Produce text/event-stream
// @Param request body dto.GatewayChatRequest true "Conversation"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 402 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /gateway/v1/chat [post]
func (h *gatewayHandler) chat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	member, ok := middleware.GetMemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Sessão inválida ou expirada"})
		return
	}

	var req dto.GatewayChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for gateway chat", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	body, err := h.gateway.Relay(c.Request.Context(), *member, req.ToDomainChatRequest())
	if err != nil {
		writeUpstreamError(c, logger, err)
		return
	}
	defer body.Close()

	setEventStreamHeaders(c)
	c.Status(http.StatusOK)

	buf := make([]byte, 4<<10)
	c.Stream(func(w io.Writer) bool {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return false
			}
		}
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				logger.Warn("Upstream stream interrupted", slog.String("error", rerr.Error()))
			}
			return false
		}
		return true
	})
}

func writeUpstreamError(c *gin.Context, logger *slog.Logger, err error) {
	var sc statusCoder
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &sc) && sc.HTTPStatus() == http.StatusTooManyRequests:
		logger.Warn("Upstream rate limited")
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "Muitas requisições. Aguarde um momento e tente novamente."})
	case errors.As(err, &sc) && sc.HTTPStatus() == http.StatusPaymentRequired:
		logger.Warn("Upstream usage limit reached")
		c.JSON(http.StatusPaymentRequired, dto.ErrorResponse{Error: "Limite de uso atingido. Adicione créditos para continuar usando o agente."})
	default:
		logger.Error("Upstream request failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Erro ao processar sua mensagem."})
	}
}
