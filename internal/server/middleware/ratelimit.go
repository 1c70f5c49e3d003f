package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-provider-kit/pkg/api"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	clients map[string]*rate.Limiter
	mu      sync.RWMutex
	rps     rate.Limit
	burst   int
	logger  *zap.Logger
}

// NewRateLimiter returns a limiter; rps <= 0 disables limiting.
func NewRateLimiter(rps float64, burst int, logger *zap.Logger) *RateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*rate.Limiter),
		rps:     limit,
		burst:   burst,
		logger:  logger,
	}
}

func (rl *RateLimiter) bucket(ip string) *rate.Limiter {
	rl.mu.RLock()
	b, ok := rl.clients[ip]
	rl.mu.RUnlock()
	if ok {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if b, ok = rl.clients[ip]; ok {
		return b
	}
	b = rate.NewLimiter(rl.rps, rl.burst)
	rl.clients[ip] = b
	return b
}

// retryAfter is the whole number of seconds until one token refills.
func (rl *RateLimiter) retryAfter() string {
	if rl.rps == rate.Inf || rl.rps <= 0 {
		return "1"
	}
	secs := math.Ceil(1 / float64(rl.rps))
	return strconv.FormatFloat(math.Max(secs, 1), 'f', 0, 64)
}

// Middleware rejects requests over the per-IP budget with a 429 problem.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if rl.bucket(ip).Allow() {
			c.Next()
			return
		}

		rl.logger.Warn("rate limit exceeded",
			zap.String("ip", ip),
			zap.String("path", c.Request.URL.Path),
			zap.String("provider", c.GetHeader("X-Provider")),
		)
		c.Header("Retry-After", rl.retryAfter())
		c.AbortWithStatusJSON(http.StatusTooManyRequests, api.TooManyRequestsError("rate limit exceeded"))
	}
}
