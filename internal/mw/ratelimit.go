package mw

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ClientLimiters hands out one token bucket per client address. Buckets of
// clients that stay quiet for the idle period expire.
type ClientLimiters struct {
	buckets *cache.Cache
	limit   rate.Limit
	burst   int
}

// NewClientLimiters returns buckets refilled at limit with room for burst requests.
func NewClientLimiters(limit rate.Limit, burst int, idle time.Duration) *ClientLimiters {
	return &ClientLimiters{
		buckets: cache.New(idle, 2*idle),
		limit:   limit,
		burst:   burst,
	}
}

// For returns the bucket of addr and extends its idle deadline.
func (l *ClientLimiters) For(addr string) *rate.Limiter {
	if v, found := l.buckets.Get(addr); found {
		l.buckets.SetDefault(addr, v)
		return v.(*rate.Limiter)
	}
	fresh := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(addr, fresh, cache.DefaultExpiration); err != nil {
		if v, found := l.buckets.Get(addr); found {
			return v.(*rate.Limiter)
		}
	}
	return fresh
}

// retryAfter is the whole number of seconds until one more token is available.
func (l *ClientLimiters) retryAfter() string {
	if l.limit <= 0 || math.IsInf(float64(l.limit), 1) {
		return "1"
	}
	return strconv.Itoa(int(math.Ceil(1 / float64(l.limit))))
}

// RateLimiter rejects clients that exceed their bucket with 429 and a Retry-After hint.
func RateLimiter(limit rate.Limit, burst int) gin.HandlerFunc {
	limiters := NewClientLimiters(limit, burst, 10*time.Minute)
	return func(c *gin.Context) {
		if limiters.For(c.ClientIP()).Allow() {
			c.Next()
			return
		}
		c.Header("Retry-After", limiters.retryAfter())
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	}
}
