package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/smartcity-backend-go/pkg/response"
)

// RateLimiter is a sliding-window limiter keyed by client IP
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int           // Maximum requests per window
	window time.Duration // Time window
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Run prunes idle clients every window until ctx is done
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for ip, times := range rl.hits {
				if valid := rl.prune(times, now); len(valid) == 0 {
					delete(rl.hits, ip)
				} else {
					rl.hits[ip] = valid
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Allow records a hit for key and reports whether it is within the limit
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := rl.prune(rl.hits[key], now)
	if len(valid) >= rl.limit {
		rl.hits[key] = valid
		return false
	}
	rl.hits[key] = append(valid, now)
	return true
}

// prune drops hits older than the window. Hits are kept in arrival order.
func (rl *RateLimiter) prune(times []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(times) && now.Sub(times[i]) >= rl.window {
		i++
	}
	return times[i:]
}

// RateLimit middleware limits requests per IP. A non-positive limit disables it.
func RateLimit(ctx context.Context, limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewRateLimiter(limit, window)
	go limiter.Run(ctx)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", "")
			return
		}
		c.Next()
	}
}
