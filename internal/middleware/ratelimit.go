package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
)

// NewMemoryLimiter builds a limiter from a formatted rate such as "5-M" backed by
// an in-process store whose entries expire with the rate period.
func NewMemoryLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit creates a Gin middleware limiting requests per client IP.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		lctx, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Error("Failed to get rate limit context", slog.String("ip", ip), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		if lctx.Reached {
			GetLoggerFromCtx(c.Request.Context()).Warn("Rate limit exceeded", slog.String("ip", ip), slog.Int64("limit", lctx.Limit))
			c.Header("Retry-After", fmt.Sprint(retryAfterSeconds(lctx.Reset)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Muitas requisições. Aguarde um momento e tente novamente."})
			return
		}

		c.Next()
	}
}

// KeyedLimiter counts attempts per caller-chosen key, e.g. a login name.
type KeyedLimiter struct {
	limiter *limiter.Limiter
	prefix  string
}

// NewKeyedLimiter namespaces keys with prefix so one store can serve several limiters.
func NewKeyedLimiter(l *limiter.Limiter, prefix string) *KeyedLimiter {
	return &KeyedLimiter{limiter: l, prefix: prefix}
}

// Allow records an attempt for key. Keys are compared case-insensitively.
// When the budget is spent it returns an error wrapping apperrors.ErrRateLimited
// and the wait until the window resets.
func (k *KeyedLimiter) Allow(ctx context.Context, key string) (time.Duration, error) {
	lctx, err := k.limiter.Get(ctx, k.prefix+strings.ToLower(strings.TrimSpace(key)))
	if err != nil {
		return 0, fmt.Errorf("rate limit check failed: %w", err)
	}
	if lctx.Reached {
		return time.Duration(retryAfterSeconds(lctx.Reset)) * time.Second,
			fmt.Errorf("%w: %d attempts per window", apperrors.ErrRateLimited, lctx.Limit)
	}
	return 0, nil
}

func retryAfterSeconds(reset int64) int64 {
	secs := reset - time.Now().Unix()
	if secs < 1 {
		return 1
	}
	return secs
}
