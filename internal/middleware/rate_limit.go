// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nightpulse/backend/internal/i18n"
)

// RateLimiter tracks one token bucket per client key. When request auth has
// already run (the scan and upload limiters sit behind AuthRequired) the key
// is the user id, so door scanners behind venue NAT do not share a bucket.
// Everything else, including the global general limiter, keys by client IP.
type RateLimiter struct {
	mtx     sync.Mutex
	buckets map[string]*clientBucket
	limit   rate.Limit
	burst   int
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*clientBucket),
		limit:   r,
		burst:   b,
	}
	go rl.evictIdle()
	return rl
}

// evictIdle drops buckets not seen for a few minutes so the map stays small.
func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mtx.Lock()
		for key, b := range rl.buckets {
			if time.Since(b.lastSeen) > 3*time.Minute {
				delete(rl.buckets, key)
			}
		}
		rl.mtx.Unlock()
	}
}

func (rl *RateLimiter) bucket(key string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, exists := c.Get("user_id"); exists {
			if s, ok := userID.(string); ok && s != "" {
				key = s
			}
		}

		if !rl.bucket(key).Allow() {
			lang := c.GetHeader("Accept-Language")
			if lang == "" {
				lang = "en"
			}
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": i18n.T(lang, i18n.KeyRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

var (
	generalLimiter = NewRateLimiter(rate.Every(time.Second), 10)
	authLimiter    = NewRateLimiter(rate.Every(time.Minute), 5) // brute force protection
	scanLimiter    = NewRateLimiter(rate.Every(time.Second), 5) // door scanners burst on entry rush
	uploadLimiter  = NewRateLimiter(rate.Every(time.Minute), 10)
)

func GeneralRateLimit() gin.HandlerFunc {
	return generalLimiter.Middleware()
}

func AuthRateLimit() gin.HandlerFunc {
	return authLimiter.Middleware()
}

func ScanRateLimit() gin.HandlerFunc {
	return scanLimiter.Middleware()
}

func UploadRateLimit() gin.HandlerFunc {
	return uploadLimiter.Middleware()
}
