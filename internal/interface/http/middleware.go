package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/infra/config"
)

// errorHandlingMiddleware renders the last recorded error as {"error":{"code","message"}}.
func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		httpErr := asHTTPError(c.Errors.Last().Err)
		attrs := []any{"code", httpErr.Code, "status", httpErr.Status, "method", c.Request.Method, "path", c.FullPath()}
		if httpErr.Err != nil {
			attrs = append(attrs, "error", httpErr.Err)
		}
		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
		} else {
			logger.Warn("request rejected", attrs...)
		}
		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": httpErr.Message,
			},
		})
	}
}

func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newClientLimiter(cfg.RequestsPerMinute, cfg.Burst, time.Now)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		wait, ok := limiter.take(ip)
		if ok {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limited", "too many requests", nil))
	}
}

// clientLimiter is a token bucket per client key, refilled continuously.
type clientLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	perSecond float64
	burst     float64
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

func newClientLimiter(perMinute, burst int, now func() time.Time) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		buckets:   make(map[string]*bucket),
		perSecond: float64(perMinute) / 60,
		burst:     float64(burst),
		idle:      5 * time.Minute,
		lastSweep: now(),
		now:       now,
	}
}

// take spends one token for key. When empty it reports how long until one is available.
func (l *clientLimiter) take(key string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.idle {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.idle {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, seen: now}
		l.buckets[key] = b
	} else {
		b.tokens = math.Min(l.burst, b.tokens+now.Sub(b.seen).Seconds()*l.perSecond)
		b.seen = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return 0, true
	}
	missing := 1 - b.tokens
	return time.Duration(missing / l.perSecond * float64(time.Second)), false
}
