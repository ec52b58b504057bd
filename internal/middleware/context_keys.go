package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

const (
	memberKey  = contextKey("member")
	sessionKey = contextKey("memberSession")
	tokenKey   = contextKey("bearerToken")
)

// withAuth stores the authenticated identity in ctx.
func withAuth(ctx context.Context, member *domain.Member, session *domain.MemberSession, token string) context.Context {
	ctx = context.WithValue(ctx, memberKey, member)
	ctx = context.WithValue(ctx, sessionKey, session)
	return context.WithValue(ctx, tokenKey, token)
}

// GetMemberFromContext retrieves the authenticated member.
func GetMemberFromContext(c *gin.Context) (*domain.Member, bool) {
	member, ok := c.Request.Context().Value(memberKey).(*domain.Member)
	return member, ok && member != nil
}

// GetSessionFromContext retrieves the login session behind the request.
func GetSessionFromContext(c *gin.Context) (*domain.MemberSession, bool) {
	session, ok := c.Request.Context().Value(sessionKey).(*domain.MemberSession)
	return session, ok && session != nil
}

// GetBearerTokenFromContext retrieves the raw credential the request was authenticated with.
func GetBearerTokenFromContext(c *gin.Context) (string, bool) {
	token, ok := c.Request.Context().Value(tokenKey).(string)
	return token, ok && token != ""
}
