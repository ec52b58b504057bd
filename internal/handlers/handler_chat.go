package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/dto"
	"github.com/SscSPs/family_finance_agent/internal/middleware"
)

const msgSendInProgress = "Aguarde a resposta anterior terminar."

// chatHandler exposes the member's chat session.
type chatHandler struct {
	sessions portssvc.ChatSessionStoreSvc
}

func registerChatRoutes(rg *gin.RouterGroup, sessions portssvc.ChatSessionStoreSvc) {
	h := &chatHandler{sessions: sessions}

	chat := rg.Group("/chat")
	{
		chat.GET("", h.getState)
		chat.POST("/messages", h.sendMessage)
		chat.DELETE("/messages", h.clearMessages)
		chat.POST("/cancel", h.cancel)
	}
}

// session resolves the caller's chat session; AuthMiddleware guarantees the identity.
func (h *chatHandler) session(c *gin.Context) (portssvc.ChatSessionSvc, bool) {
	member, ok := middleware.GetMemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Sessão inválida ou expirada"})
		return nil, false
	}
	token, _ := middleware.GetBearerTokenFromContext(c)
	return h.sessions.Session(*member, token), true
}

// getState godoc
// @Summary Get chat state
// @Description Returns the messages and send state of the caller's chat session.
// @Tags chat
// @Produce json
// @Success 200 {object} dto.ChatStateResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /chat [get]
func (h *chatHandler) getState(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToChatStateResponse(session))
}

// sendMessage godoc
// @Summary Send a chat message
// @Description Streams the agent reply as server-sent events. Each "message" event carries
// @Description the agent message so far, without command blocks; a final "done" event
// @Description carries the session state.
// @Tags chat
// @Accept json
// @Produce text/event-stream
// @Param message body dto.SendMessageRequest true "Message text and optional image data URL"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Success 202 "Ignored because a reply is already streaming"
// @Security BearerAuth
// @Router /chat/messages [post]
func (h *chatHandler) sendMessage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SendMessage", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Content) == "" && req.Attachment == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Mensagem vazia"})
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}

	started := false
	start := func() {
		if started {
			return
		}
		started = true
		setEventStreamHeaders(c)
		c.Status(http.StatusOK)
	}
	observer := func(msg domain.Message) {
		start()
		c.SSEvent("message", dto.ToMessageResponse(msg))
		c.Writer.Flush()
	}

	err := session.SendMessage(c.Request.Context(), req.Content, req.Attachment, observer)
	if errors.Is(err, apperrors.ErrSendInProgress) && !started {
		// The running turn owns the session; a repeated send is dropped without an error.
		logger.Debug("Ignoring send while a reply is streaming")
		c.Status(http.StatusAccepted)
		return
	}
	if err != nil {
		logger.Warn("Chat turn ended with error", slog.String("error", err.Error()))
	}

	start()
	c.SSEvent("done", dto.ToChatStateResponse(session))
	c.Writer.Flush()
}

// clearMessages godoc
// @Summary Clear the conversation
// @Tags chat
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "A message is being sent"
// @Security BearerAuth
// @Router /chat/messages [delete]
func (h *chatHandler) clearMessages(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.ClearMessages(); err != nil {
		if errors.Is(err, apperrors.ErrSendInProgress) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: msgSendInProgress})
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to clear messages", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Erro interno do servidor"})
		return
	}
	c.Status(http.StatusNoContent)
}

// cancel godoc
// @Summary Cancel the running reply
// @Description Stops the reply being streamed; text received so far is kept.
// @Tags chat
// @Success 202
// @Security BearerAuth
// @Router /chat/cancel [post]
func (h *chatHandler) cancel(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Cancel()
	c.Status(http.StatusAccepted)
}

func setEventStreamHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
}
