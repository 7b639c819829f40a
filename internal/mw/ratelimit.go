package mw

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a client's limiter survives without requests.
const idleLimiterTTL = 10 * time.Minute

// IPRateLimiter keeps one token bucket per client IP. Buckets of idle
// clients expire from the cache.
type IPRateLimiter struct {
	limiters *cache.Cache
	r        rate.Limit
	b        int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: cache.New(idleLimiterTTL, 2*idleLimiterTTL),
		r:        r,
		b:        b,
	}
}

// GetLimiter returns the limiter for ip, creating it on first use.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	if v, found := i.limiters.Get(ip); found {
		// Touch to extend the idle window.
		i.limiters.SetDefault(ip, v)
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(i.r, i.b)
	if err := i.limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		// Another request for the same ip won the race.
		if v, found := i.limiters.Get(ip); found {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// RateLimiter rejects requests beyond r per second per client IP with 429.
// A non-positive r disables limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	if r <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewIPRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
