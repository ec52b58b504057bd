package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
)

func TestNewMemoryLimiter_InvalidRate(t *testing.T) {
	_, err := NewMemoryLimiter("five per minute")
	assert.Error(t, err)
}

func TestKeyedLimiter_Allow(t *testing.T) {
	l, err := NewMemoryLimiter("2-M")
	require.NoError(t, err)
	keyed := NewKeyedLimiter(l, "login:")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := keyed.Allow(ctx, "Ana")
		require.NoError(t, err)
	}

	retryAfter, err := keyed.Allow(ctx, " ana ")
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)
	assert.GreaterOrEqual(t, retryAfter.Seconds(), 1.0)

	_, err = keyed.Allow(ctx, "Bia")
	require.NoError(t, err)

	// A second limiter sharing the store but not the prefix keeps its own counts.
	other := NewKeyedLimiter(l, "other:")
	_, err = other.Allow(ctx, "Ana")
	require.NoError(t, err)
}

func TestRateLimit_PerClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, err := NewMemoryLimiter("1-M")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/ping", RateLimit(l), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000").Code)
	limited := send("10.0.0.1:1001")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code)
}
