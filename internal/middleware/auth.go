package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
)

// accessTokenParam lets EventSource clients, which cannot set headers, authenticate.
const accessTokenParam = "access_token"

// AuthMiddleware creates a Gin middleware handler that resolves the bearer
// session token to a member and an active session.
func AuthMiddleware(authSvc portssvc.AuthReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := bearerToken(c)
		if !ok {
			logger.Warn("Authorization missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		member, session, err := authSvc.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthorized) {
				logger.Warn("Invalid session token", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sessão inválida ou expirada"})
				return
			}
			logger.Error("Failed to authenticate request", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
			return
		}

		enrichedLogger := logger.With(slog.String("member_id", member.MemberID))
		ctx := withAuth(c.Request.Context(), member, session, tokenString)
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if token := c.Query(accessTokenParam); token != "" {
		return token, true
	}
	return "", false
}
