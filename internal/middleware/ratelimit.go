package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter allows max requests per client IP in each fixed window.
type RateLimiter struct {
	instance *limiter.Limiter
}

func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "goras_api",
		CleanUpInterval: time.Minute,
	})
	rate := limiter.Rate{Period: window, Limit: int64(max)}
	return &RateLimiter{instance: limiter.New(store, rate)}
}

// Middleware sets the X-RateLimit-* headers on every response and answers
// 429 with Retry-After once the budget is spent.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return mgin.NewMiddleware(rl.instance,
		mgin.WithKeyGetter(func(c *gin.Context) string { return c.ClientIP() }),
		mgin.WithLimitReachedHandler(limitReached),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			slog.Error("Rate limiter failed", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorBody("Server error"))
		}),
	)
}

func limitReached(c *gin.Context) {
	slog.Warn("Rate limit exceeded", "ip", c.ClientIP())
	retry := int64(1)
	if reset, err := strconv.ParseInt(c.Writer.Header().Get("X-RateLimit-Reset"), 10, 64); err == nil {
		if left := reset - time.Now().Unix(); left > retry {
			retry = left
		}
	}
	c.Header("Retry-After", strconv.FormatInt(retry, 10))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorBody("Too many requests, please try again later."))
}
