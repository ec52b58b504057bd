package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

type fakeAuthReader struct {
	tokens map[string]*domain.Member
	err    error
}

func (f *fakeAuthReader) Authenticate(_ context.Context, token string) (*domain.Member, *domain.MemberSession, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	member, ok := f.tokens[token]
	if !ok {
		return nil, nil, apperrors.ErrUnauthorized
	}
	return member, &domain.MemberSession{SessionID: "s-" + token, MemberID: member.MemberID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuthReader) ListMembers(context.Context) ([]domain.Member, error) {
	return nil, nil
}

func newAuthRouter(reader *fakeAuthReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(reader), func(c *gin.Context) {
		member, _ := GetMemberFromContext(c)
		session, _ := GetSessionFromContext(c)
		token, _ := GetBearerTokenFromContext(c)
		c.JSON(http.StatusOK, gin.H{"member": member.MemberID, "session": session.SessionID, "token": token})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	reader := &fakeAuthReader{tokens: map[string]*domain.Member{"good": {MemberID: "m1", Name: "Ana"}}}

	testCases := []struct {
		name       string
		target     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "bearer header", target: "/me", header: "Bearer good", wantStatus: http.StatusOK, wantBody: `"session":"s-good"`},
		{name: "lowercase scheme", target: "/me", header: "bearer good", wantStatus: http.StatusOK, wantBody: `"member":"m1"`},
		{name: "query token", target: "/me?access_token=good", wantStatus: http.StatusOK, wantBody: `"token":"good"`},
		{name: "missing", target: "/me", wantStatus: http.StatusUnauthorized},
		{name: "malformed", target: "/me", header: "Token good", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", target: "/me", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
	}

	r := newAuthRouter(reader)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantBody != "" {
				assert.Contains(t, w.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestAuthMiddleware_BackendFailure(t *testing.T) {
	r := newAuthRouter(&fakeAuthReader{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
