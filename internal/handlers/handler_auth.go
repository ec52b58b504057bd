package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/core/services"
	"github.com/SscSPs/family_finance_agent/internal/dto"
	"github.com/SscSPs/family_finance_agent/internal/middleware"
)

// authHandler handles the member registry: register, login, verify and logout.
type authHandler struct {
	auth         portssvc.AuthSvcFacade
	sessions     portssvc.ChatSessionStoreSvc
	loginLimiter *middleware.KeyedLimiter
}

func newAuthHandler(auth portssvc.AuthSvcFacade, sessions portssvc.ChatSessionStoreSvc, loginLimiter *middleware.KeyedLimiter) *authHandler {
	return &authHandler{auth: auth, sessions: sessions, loginLimiter: loginLimiter}
}

// registerAuthRoutes sets up the routes for authentication.
// Register and login are public; verify and logout need a session.
func registerAuthRoutes(rg *gin.RouterGroup, auth portssvc.AuthSvcFacade, sessions portssvc.ChatSessionStoreSvc, loginLimiter *middleware.KeyedLimiter) {
	h := newAuthHandler(auth, sessions, loginLimiter)

	group := rg.Group("/auth")
	{
		group.POST("/register", h.register)
		group.POST("/login", h.login)
		group.GET("/members", h.listMembers)

		authed := group.Group("", middleware.AuthMiddleware(auth))
		authed.GET("/verify", h.verify)
		authed.POST("/logout", h.logout)
	}
}

// register godoc
// @Summary Register a family member
// @Description Creates a member with a 4-digit PIN and returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Name and PIN"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Name already registered"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Register", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Nome e PIN são obrigatórios"})
		return
	}

	grant, err := h.auth.Register(c.Request.Context(), req.Name, req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPIN):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "PIN deve ter 4 números"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Nome e PIN são obrigatórios"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "Nome já cadastrado"})
		default:
			logger.Error("Failed to register member", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Erro ao cadastrar"})
		}
		return
	}

	logger.Info("Member registered", slog.String("member_id", grant.Member.MemberID))
	c.JSON(http.StatusCreated, dto.ToAuthResponse(grant))
}

// login godoc
// @Summary Member login
// @Description Checks the PIN and returns a session token. Attempts are limited per name.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Name and PIN"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Nome e PIN são obrigatórios"})
		return
	}

	if h.loginLimiter != nil {
		retryAfter, err := h.loginLimiter.Allow(c.Request.Context(), req.Name)
		switch {
		case errors.Is(err, apperrors.ErrRateLimited):
			secs := int(retryAfter.Seconds())
			logger.Warn("Login attempts exceeded", slog.String("name", strings.ToLower(req.Name)), slog.String("error", err.Error()))
			c.Header("Retry-After", fmt.Sprint(secs))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: fmt.Sprintf("Muitas tentativas. Tente novamente em %d segundos.", secs),
			})
			return
		case err != nil:
			logger.Error("Login rate limit check failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Erro interno do servidor"})
			return
		}
	}

	grant, err := h.auth.Login(c.Request.Context(), req.Name, req.PIN)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Login rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Nome ou PIN incorreto"})
			return
		}
		logger.Error("Failed to log in", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Erro interno do servidor"})
		return
	}

	logger.Info("Member logged in", slog.String("member_id", grant.Member.MemberID))
	c.JSON(http.StatusOK, dto.ToAuthResponse(grant))
}

// listMembers godoc
// @Summary List family members
// @Description Lists member names for the login screen.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.ListMembersResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/members [get]
func (h *authHandler) listMembers(c *gin.Context) {
	members, err := h.auth.ListMembers(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list members", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Erro interno do servidor"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListMembersResponse(members))
}

// verify godoc
// @Summary Verify session
// @Description Confirms the bearer token belongs to an active session.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.VerifyResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/verify [get]
func (h *authHandler) verify(c *gin.Context) {
	member, ok := middleware.GetMemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Sessão inválida ou expirada"})
		return
	}
	c.JSON(http.StatusOK, dto.VerifyResponse{Valid: true, Member: dto.ToMemberResponse(member)})
}

// logout godoc
// @Summary Log out
// @Description Revokes the session and discards the member's chat.
// @Tags auth
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	member, okMember := middleware.GetMemberFromContext(c)
	session, okSession := middleware.GetSessionFromContext(c)
	if !okMember || !okSession {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Sessão inválida ou expirada"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), session.SessionID); err != nil {
		logger.Error("Failed to revoke session", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Erro interno do servidor"})
		return
	}
	h.sessions.Drop(member.MemberID)

	logger.Info("Member logged out")
	c.Status(http.StatusNoContent)
}
